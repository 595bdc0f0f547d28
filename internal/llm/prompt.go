package llm

import "fmt"

// promptTemplate embeds the literal target schema. The four default sections
// are always requested, in this order, with the skills section carrying the
// grouped format and categorized view state.
const promptTemplate = `
You are a resume parser. Extract structured resume data in the following JSON format.

Expected JSON:
{
  "id": null,
  "targetJobTitle": "",
  "targetJobDescription": "",
  "personalInfo": {
    "fullName": "",
    "jobTitle": "",
    "email": "",
    "phone": "",
    "location": "",
    "summary": "",
    "profilePicture": null
  },
  "sections": [
    {
      "id": "null",
      "type": "experience",
      "title": "Work Experience",
      "order": 0,
      "hidden": false,
      "items": [
        {
          "jobTitle": "",
          "company": "",
          "location": "",
          "startDate": null,
          "endDate": null,
          "currentPosition": false,
          "description": ""
        }
      ],
      "groups": [],
      "state": {}
    },
    {
      "id": "null",
      "type": "projects",
      "title": "Projects",
      "order": 1,
      "hidden": false,
      "items": [],
      "groups": [],
      "state": {}
    },
    {
      "id": "null",
      "type": "education",
      "title": "Education",
      "order": 2,
      "hidden": false,
      "items": [],
      "groups": [],
      "state": {}
    },
    {
      "id": "null",
      "type": "skills",
      "title": "Skills",
      "order": 3,
      "format": "grouped",
      "items": [],
      "groups": [],
      "state": {
        "categoryOrder": [],
        "viewMode": "categorized"
      },
      "hidden": false
    }
  ]
}

Resume Text:
"""
%s
"""

Return only valid JSON.
`

// BuildPrompt composes the instructional prompt for one transform call.
func BuildPrompt(rawText string) string {
	return fmt.Sprintf(promptTemplate, rawText)
}
