package mcpserver

// DataModelURI identifies the data model resource.
const DataModelURI = "bloggerbox://data-model"

// DataModelContract describes categories, posts and the rules the tools enforce,
// so LLM consumers can call them without trial and error.
const DataModelContract = `# Bloggerbox Data Model

Bloggerbox stores two entities: categories and posts. Every post belongs to exactly one category.

## Category

` + "```" + `json
{"id": "7b1f0d5c-3c1e-4a5e-9a7b-2f4a6c1d9e00", "name": "Sport"}
` + "```" + `

- ` + "`id`" + ` is a UUID assigned on creation and never changes.
- ` + "`name`" + ` is trimmed, 1 to 255 characters, and unique ignoring case
  ("Sport" and "sport" cannot both exist).
- A category can be renamed. Renaming to its own current name succeeds.
- A category that posts still reference cannot be deleted. Move or delete its posts first.

## Post

` + "```" + `json
{
  "id": "0d9c8c55-8f34-4b0c-9f37-3c8f0c2f7d11",
  "title": "Race Day",
  "content": "Ten laps around the lake.",
  "createdDate": "2024-03-01T12:00:00Z",
  "category": {"id": "7b1f0d5c-3c1e-4a5e-9a7b-2f4a6c1d9e00", "name": "Sport"}
}
` + "```" + `

- ` + "`createdDate`" + ` is set by the server in UTC and never changes.
- ` + "`title`" + ` and ` + "`content`" + ` are free text.
- ` + "`category`" + ` must name an existing category id on create and update.
- Lists are ordered by ` + "`createdDate`" + `, oldest first.

## Searching

- ` + "`list_categories`" + ` with ` + "`name`" + ` matches categories whose name contains the fragment, ignoring case.
- ` + "`list_posts`" + ` with ` + "`topic`" + ` matches posts whose title or content contains the keyword, ignoring case.

## Errors

Tool errors carry the reason: an unknown id ("does not exist"), a duplicate name
("already exists"), a category still in use ("is referenced by"), or invalid input.
`
