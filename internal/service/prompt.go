package service

import (
	"fmt"
	"strconv"
	"strings"
)

const leadsJSONShape = `{
    "leads": [
        {
            "name": "Business Name Here",
            "address": "Full Address Here",
            "phone": "Phone Number Here or empty string",
            "website": "Website URL Here or empty string",
            "email": %s
        }
    ]
}`

// BuildTaskDescription renders the natural-language task sent to the automation provider.
// With requireEmail the provider is also told to visit each website and look for a contact address.
func BuildTaskDescription(query string, numLeads int, requireEmail bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Go to Google Maps (https://www.google.com/maps) and search for %s.\n\n", strconv.Quote(strings.TrimSpace(query)))
	fmt.Fprintf(&b, "For the first %d business results, extract the following information:\n", numLeads)
	b.WriteString("1. Business Name\n")
	b.WriteString("2. Full Address\n")
	b.WriteString("3. Phone Number (if available)\n")
	b.WriteString("4. Website URL (if available)\n")
	if requireEmail {
		b.WriteString("5. Email Address (REQUIRED - visit the website to find it)\n")
	}

	b.WriteString("\nFor each business:\n")
	b.WriteString("- Click on the business listing to see full details\n")
	b.WriteString("- Get the phone number, website, and address from the business details panel\n")
	if requireEmail {
		b.WriteString("- IMPORTANT: If a website is available, visit that website and look for an email address\n")
		b.WriteString("- Look for email in: contact page, footer, about page, or contact forms\n")
		b.WriteString("- Common email patterns: info@, contact@, hello@, support@, [businessname]@\n")
		b.WriteString("- If no email is found on the website, use empty string \"\"\n")
	} else {
		b.WriteString("- If information is not available, use empty string \"\"\n")
	}

	emailValue := `""`
	if requireEmail {
		emailValue = `"Email Address Here or empty string"`
	}
	b.WriteString("\nReturn ONLY a JSON object in this exact format:\n")
	fmt.Fprintf(&b, leadsJSONShape, emailValue)
	b.WriteString("\n\nMake sure to return valid JSON. Do not include any other text or explanation.\n")

	return b.String()
}
