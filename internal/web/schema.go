package web

const askRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "question": {
      "type": "string",
      "maxLength": 1000
    }
  },
  "required": ["question"],
  "additionalProperties": false
}`
