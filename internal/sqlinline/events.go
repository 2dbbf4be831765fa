package sqlinline

const QInsertEvent = `--sql 1d6e9b3a-4c72-4f85-a0d1-7b2e5c8f3a49
insert into events (id, name, payload, status, attempts, max_attempts, available_at, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::jsonb, 'queued', 0, $3::int, now(), now(), now())
returning id::text;
`

const QClaimEvent = `--sql 6a8f2c1e-3b59-4d07-8e4a-9c1b7d5f2e83
with next_event as (
    select id
    from events
    where status = 'queued'
      and available_at <= now()
    order by created_at asc
    for update skip locked
    limit 1
),
updated as (
    update events
    set status = 'running', attempts = attempts + 1, updated_at = now()
    where id in (select id from next_event)
    returning id::text, name, payload, attempts, max_attempts
)
select * from updated;
`

const QCompleteEvent = `--sql c4e7a0b2-8d13-4f69-b5c2-0a9e3f6d1b78
update events
set status = 'done', last_error = null, updated_at = now()
where id = $1::uuid;
`

// Failed events go back to the queue until attempts reach max_attempts.
const QFailEvent = `--sql 8b1f5d3c-6e20-4a97-9f3b-4d8c2a7e0f15
update events
set status = case when attempts >= max_attempts then 'failed' else 'queued' end,
    last_error = $2::text,
    available_at = now() + make_interval(secs => $3::int),
    updated_at = now()
where id = $1::uuid
returning status;
`

// Release hands a claimed event back without spending an attempt.
const QReleaseEvent = `--sql 2e9c4a7f-1b83-4d56-a8e0-5f3d9b6c2a41
update events
set status = 'queued',
    attempts = greatest(attempts - 1, 0),
    available_at = now() + make_interval(secs => $2::int),
    updated_at = now()
where id = $1::uuid;
`

const QDiscardEvent = `--sql f3a6d9c2-5e18-4b7a-8d04-6c2e1f9b3a57
update events
set status = 'failed', last_error = $2::text, updated_at = now()
where id = $1::uuid;
`
