package sqlinline

const QSelectProjectByID = `--sql 3c0f7a52-9d61-4b8e-a1f4-6e2b9d0c7a13
select
  id::text,
  user_id,
  name,
  status,
  transcript,
  summary,
  social_media_posts,
  titles,
  hashtags,
  key_moments,
  video_timestamps,
  deleted_at,
  created_at,
  updated_at
from projects
where id = $1::uuid
limit 1;
`

// $2 selects lifetime counting (soft-deleted rows included) over active-only.
const QCountUserProjects = `--sql 9a4d2e71-5b3c-4f08-8c6e-1d7f0a2b3c94
select count(*)
from projects
where user_id = $1::text
  and ($2::boolean or deleted_at is null);
`

// Only the column named by $2 changes; the others are rewritten with their
// current value under the same row lock.
const QUpdateProjectAsset = `--sql e7b15c08-2f4a-4d93-b6e1-8a0c3f5d9e26
update projects set
  summary            = case when $2::text = 'summary'          then $3::jsonb else summary end,
  social_media_posts = case when $2::text = 'SocialMediaPosts' then $3::jsonb else social_media_posts end,
  titles             = case when $2::text = 'titles'           then $3::jsonb else titles end,
  hashtags           = case when $2::text = 'hashtags'         then $3::jsonb else hashtags end,
  key_moments        = case when $2::text = 'keyMoments'       then $3::jsonb else key_moments end,
  video_timestamps   = case when $2::text = 'VideoTimestamps'  then $3::jsonb else video_timestamps end,
  updated_at         = now()
where id = $1::uuid;
`

const QInsertProject = `--sql 5f2c8b47-0e91-4a6d-b3f8-2c7d1e9a4b60
insert into projects (id, user_id, name, status, transcript, created_at, updated_at)
values (gen_random_uuid(), $1::text, $2::text, 'completed', $3::jsonb, now(), now())
returning id::text;
`

const QSoftDeleteProject = `--sql b8d3f1a6-7c25-4e0b-9a4f-3e6c2d8b1f75
update projects
set deleted_at = now(), updated_at = now()
where id = $1::uuid and deleted_at is null;
`
