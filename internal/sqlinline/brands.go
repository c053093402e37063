package sqlinline

const QSelectBrandByID = `--sql ab5ae4e2-448a-466c-9f8f-f56182c91870
select
    id,
    name,
    coalesce(slogan, '')      as slogan,
    coalesce(domain, '')      as domain,
    coalesce(description, '') as description,
    coalesce(properties, '{}'::jsonb) as properties
from brands
where id = $1::uuid
limit 1;
`
