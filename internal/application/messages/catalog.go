package messages

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var translations = map[language.Tag]map[Key]string{
	language.English: {
		KeyMerchantIDChangedForCountry: "This order was placed with Klarna merchant ID %s. The merchant ID configured for %s is now %s.",
		KeyUnauthorizedRequest:         "Klarna rejected the request: the configured credentials are not authorized for this order.",
		KeyOrderNotFound:               "The order could not be found at Klarna.",
		KeyOrderIsCancelled:            "The order has been cancelled at Klarna.",
		KeyOrderNotInSync:              "The order is out of sync with Klarna.",
		KeyNoRequestsWillBeSent:        " No further requests will be sent to Klarna for this order.",
		KeyCaptureSuccessful:           "The order amount has been captured at Klarna.",
		KeyCaptureFailOrderCancelled:   "The order cannot be captured because it is cancelled.",
		KeyOnlyForKlarnaPayment:        "This tab is only available for orders paid with Klarna.",
		KeyCaptureNotAllowed:           "The order cannot be captured: it is out of sync with Klarna or nothing is left to capture.",
		KeyRefundSuccessful:            "The refund has been created at Klarna.",
		KeyCancelSuccessful:            "The order has been cancelled at Klarna.",
	},
	language.German: {
		KeyMerchantIDChangedForCountry: "Diese Bestellung wurde mit der Klarna Händler-ID %s angelegt. Für %s ist inzwischen die Händler-ID %s hinterlegt.",
		KeyUnauthorizedRequest:         "Klarna hat die Anfrage abgelehnt: Die hinterlegten Zugangsdaten sind für diese Bestellung nicht berechtigt.",
		KeyOrderNotFound:               "Die Bestellung wurde bei Klarna nicht gefunden.",
		KeyOrderIsCancelled:            "Die Bestellung wurde bei Klarna storniert.",
		KeyOrderNotInSync:              "Die Bestellung ist nicht mit Klarna synchron.",
		KeyNoRequestsWillBeSent:        " Für diese Bestellung werden keine weiteren Anfragen an Klarna gesendet.",
		KeyCaptureSuccessful:           "Der Bestellbetrag wurde bei Klarna eingezogen.",
		KeyCaptureFailOrderCancelled:   "Die Bestellung kann nicht eingezogen werden, da sie storniert ist.",
		KeyOnlyForKlarnaPayment:        "Dieser Reiter ist nur für mit Klarna bezahlte Bestellungen verfügbar.",
		KeyCaptureNotAllowed:           "Die Bestellung kann nicht eingezogen werden: Sie ist nicht synchron oder es ist kein Betrag mehr offen.",
		KeyRefundSuccessful:            "Die Rückerstattung wurde bei Klarna angelegt.",
		KeyCancelSuccessful:            "Die Bestellung wurde bei Klarna storniert.",
	},
}

// Catalog renders Text in the best language for an Accept-Language header.
type Catalog struct {
	builder   *catalog.Builder
	supported []language.Tag
	matcher   language.Matcher
}

func NewCatalog() *Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	supported := []language.Tag{language.English, language.German}
	for _, tag := range supported {
		for key, text := range translations[tag] {
			_ = builder.SetString(tag, string(key), text)
		}
	}

	return &Catalog{
		builder:   builder,
		supported: supported,
		matcher:   language.NewMatcher(supported),
	}
}

// Resolve picks a supported language for acceptLanguage, English when nothing
// matches or the header is malformed.
func (c *Catalog) Resolve(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(strings.TrimSpace(acceptLanguage))
	if err != nil || len(tags) == 0 {
		return language.English
	}

	_, index, confidence := c.matcher.Match(tags...)
	if confidence == language.No {
		return language.English
	}

	return c.supported[index]
}

func (c *Catalog) Render(tag language.Tag, text Text) string {
	if text.IsEmpty() {
		return ""
	}

	printer := message.NewPrinter(tag, message.Catalog(c.builder))

	var out strings.Builder
	for _, part := range text {
		if part.Key == "" {
			out.WriteString(part.Raw)
			continue
		}
		out.WriteString(printer.Sprintf(string(part.Key), part.Args...))
	}

	return out.String()
}
