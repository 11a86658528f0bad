package gemini

import (
	"fmt"

	"github.com/panpapadopoulos/cooking/internal/core/language"
)

const parsePrompt = `Parse the following recipe and return a JSON object with this exact structure:
{
  "title": "Recipe title in original language",
  "translatedTitle": "Recipe title translated to %[1]s",
  "servings": 4,
  "originalLanguage": "el or en",
  "translatedLanguage": "en or el",
  "ingredients": [
    {
      "quantity": 500,
      "unit": "g",
      "item": "ground beef",
      "translatedItem": "κιμάς μοσχαρίσιος",
      "notes": "optional notes"
    }
  ],
  "instructions": [
    "Step 1 in original language"
  ],
  "translatedInstructions": [
    "Step 1 translated"
  ]
}

Rules:
1. Detect the original language (el for Greek, en for English)
2. Translate all text to the other language
3. Use standardized units (g, kg, ml, l, cup, tbsp, tsp, oz, lb, fl oz, pint, quart, gallon)
4. Quantity must be a number, not a string
5. If a quantity is vague (like "a pinch"), use null for quantity and put the phrase in notes
6. Return ONLY the JSON, no markdown or explanation

Recipe text:
%[2]s`

const translatePrompt = `Translate the following text from %s to %s.
Return ONLY the translation, no explanations.

Text: %s`

// buildParsePrompt names the translation target: English for Greek hints,
// Greek for everything else.
func buildParsePrompt(text string, hint language.Hint) string {
	target := language.Name(string(language.Greek))
	if code, ok := language.ParseCode(string(hint)); ok && code == language.Greek {
		target = language.Name(string(language.English))
	}
	return fmt.Sprintf(parsePrompt, target, text)
}

func buildTranslatePrompt(text string, from, to language.Code) string {
	return fmt.Sprintf(translatePrompt, language.Name(string(from)), language.Name(string(to)), text)
}
