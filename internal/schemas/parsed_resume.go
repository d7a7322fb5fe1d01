package schemas

// parsedResumeSchema is the contract for the JSON the parser service
// returns from an uploaded PDF. Parsing tolerates sparse resumes (most
// sections optional) but rejects shape mismatches loudly instead of
// probing alternative envelopes.
const parsedResumeSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "ParsedResume",
  "type": "object",
  "properties": {
    "pdfName": {"type": "string"},
    "personal": {
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "designation": {"type": "string"},
        "email": {"type": "string"},
        "mobile": {"type": "string"},
        "location": {"type": "string"},
        "gender": {"type": "string"},
        "maritalStatus": {"type": "string"}
      },
      "additionalProperties": false
    },
    "summary": {"type": "string"},
    "skills": {
      "type": "array",
      "items": {"type": "string"}
    },
    "education": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "institution": {"type": "string"},
          "degree": {"type": "string"},
          "field": {"type": "string"},
          "graduationYear": {"type": "string"}
        },
        "additionalProperties": false
      }
    },
    "workExperience": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "company": {"type": "string"},
          "position": {"type": "string"},
          "duration": {"type": "string"},
          "periodFrom": {"type": "string"},
          "periodTo": {"type": "string"},
          "responsibilities": {"type": "array", "items": {"type": "string"}},
          "projects": {
            "type": "array",
            "items": {
              "type": "object",
              "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "responsibilities": {"type": "array", "items": {"type": "string"}},
                "technologies": {"type": "array", "items": {"type": "string"}}
              },
              "additionalProperties": false
            }
          }
        },
        "additionalProperties": false
      }
    },
    "projects": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "description": {"type": "string"},
          "technologies": {"type": "array", "items": {"type": "string"}}
        },
        "additionalProperties": false
      }
    }
  },
  "required": ["personal"],
  "additionalProperties": false
}`
