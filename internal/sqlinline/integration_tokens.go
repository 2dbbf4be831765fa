package sqlinline

// QSelectIntegrationToken ignores blanked tokens so a cleared key falls back
// to the environment.
const QSelectIntegrationToken = `--sql 3c1f7a2e-5b9d-4e68-9f0a-6d2b8c4e1a73
select token
from integration_tokens
where provider = $1::text
  and btrim(token) <> ''
limit 1;
`

// QUpsertIntegrationToken replaces the token and merges properties, keeping
// earlier keys that the new write does not set.
const QUpsertIntegrationToken = `--sql 9e4b6d1c-2a7f-4c35-8b90-f1e3a5c7d286
insert into integration_tokens (id, provider, token, properties, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), now(), now())
on conflict (provider) do update set
    token = excluded.token,
    properties = integration_tokens.properties || excluded.properties,
    updated_at = now();
`
