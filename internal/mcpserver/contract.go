package mcpserver

// MenuFormatContract describes the canonical menu document format that
// LLM consumers should follow when updating menu items.
const MenuFormatContract = `# Café Fausse Menu Format Contract

The menu is a single JSON document: an ordered array of sections, each with
an ordered array of items.

## Structure

` + "```" + `json
[
  {
    "title": "Starters",
    "description": "Small plates to begin",
    "items": [
      {
        "name": "Bruschetta",
        "description": "Fresh tomatoes, basil, olive oil, and toasted baguette slices",
        "price": "$8.50",
        "image": "/images/bruschetta.jpg"
      }
    ]
  }
]
` + "```" + `

## Rules

1. **Section order and item order are authoritative.** They are preserved
   exactly as stored and rendered in that order.
2. **` + "`" + `name` + "`" + ` is the item's key.** Updates and deletes address items by name,
   case-insensitively. Names should be unique across the whole menu.
3. **` + "`" + `price` + "`" + ` is a display string**, not a number. Keep the currency symbol
   (e.g. ` + "`" + `"$12.50"` + "`" + `). Do not normalize or round it.
4. **Updates replace the full item record.** Send every field, including the
   ones you did not change; omitted fields come back empty.
5. **` + "`" + `image` + "`" + ` is an absolute URL path** (e.g. ` + "`" + `/images/ribeye.jpg` + "`" + `) or empty.
6. **Encoding** is UTF-8. Accented names (Crème Brûlée) are expected.
`
