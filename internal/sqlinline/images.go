package sqlinline

const QSelectImageForUser = `--sql 9f5005c1-70cd-46c1-b8ad-fb55fbdd7a79
select
    id,
    brand_id,
    user_id,
    status,
    coalesce(image_url, '') as image_url,
    edit_count,
    coalesce(conversation, '[]'::jsonb)    as conversation,
    coalesce(version_history, '[]'::jsonb) as version_history,
    coalesce(metadata, '{}'::jsonb)        as metadata,
    created_at,
    updated_at
from images
where id = $1::uuid and user_id = $2::uuid
limit 1;
`

const QInsertPendingImage = `--sql 21120b3b-d23a-4274-b845-604bb7cb3944
insert into images(id, brand_id, user_id, status, conversation, metadata, created_at, updated_at)
values ($1::uuid, $2::uuid, $3::uuid, 'pending', $4::jsonb, $5::jsonb, now(), now());
`

const QMarkImageReady = `--sql 08256a95-e6e9-44c9-baa5-768f1b1b7914
update images
set status     = 'ready',
    image_url  = $2::text,
    metadata   = $3::jsonb,
    updated_at = now()
where id = $1::uuid;
`

const QApplyImageEdit = `--sql f8431aab-b8c5-4330-88ea-68b444624d91
update images
set image_url       = $2::text,
    edit_count      = $3::int,
    conversation    = $4::jsonb,
    version_history = $5::jsonb,
    metadata        = $6::jsonb,
    updated_at      = now()
where id = $1::uuid;
`
