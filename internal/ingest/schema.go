package ingest

// entriesSchema constrains an import payload before any entry is created.
// Amounts must be strictly positive and types restricted to the two sides
// of the ledger.
const entriesSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["entries"],
  "properties": {
    "entries": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["type", "date", "label", "amount"],
        "properties": {
          "type": {"type": "string", "enum": ["income", "expense"]},
          "date": {"type": "string", "format": "date"},
          "label": {"type": "string", "minLength": 1},
          "amount": {"type": "number", "exclusiveMinimum": 0},
          "category": {"type": "string"},
          "fiscal_year": {"type": "integer", "minimum": 2000},
          "vat_applicable": {"type": "boolean"},
          "vat_rate": {"type": "number", "minimum": 0},
          "event_id": {"type": "string"},
          "contact_id": {"type": "string"},
          "project_id": {"type": "string"}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`
