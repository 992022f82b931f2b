package mcpserver

// RecordFormatContract describes the canonical recipe record format that
// LLM consumers should follow when creating records.
const RecordFormatContract = `# Kamado Record Format Contract

Every recipe record stored in Kamado MUST follow this structure.

## Structure

` + "```" + `json
{
  "title": "肉じゃが",
  "category": "和食",
  "components": [
    {"name": "豚肉", "quantity": "200g"},
    {"name": "じゃがいも", "quantity": "3個"}
  ],
  "attributes": [
    {"name": "醤油", "quantity": "大さじ2"},
    {"name": "みりん", "quantity": "大さじ2"}
  ],
  "steps": ["じゃがいもを切る", "15分煮る"],
  "rating": 0
}
` + "```" + `

## Rules

1. **` + "`" + `title` + "`" + ` is required** and must be non-empty after trimming whitespace.
2. **` + "`" + `steps` + "`" + ` is required**: at least one non-blank instruction.
3. **` + "`" + `category` + "`" + ` should name an existing folder** (see the ` + "`" + `list_folders` + "`" + ` tool).
   Records in an unknown category still save but only show up under the
   "all" folder in filtered views.
4. **` + "`" + `components` + "`" + `** are ingredients; **` + "`" + `attributes` + "`" + `** are seasonings.
   Entries with an empty ` + "`" + `name` + "`" + ` are dropped; ` + "`" + `quantity` + "`" + ` is free text and
   may be empty.
5. **` + "`" + `rating` + "`" + `** is an integer 0..5. 0 means unrated. Use the dedicated
   rating endpoint/tool to change it later rather than re-creating the record.
6. **Do NOT supply** ` + "`" + `id` + "`" + `, ` + "`" + `created_at` + "`" + `, or ` + "`" + `logs` + "`" + ` — the server
   generates the id, stamps the creation date, and manages cooking logs
   through the ` + "`" + `add_cooking_log` + "`" + ` tool (newest entry first).
7. **Language:** field names are English (they are schema keys); values may
   use any language, Japanese included.
` + "\n"
