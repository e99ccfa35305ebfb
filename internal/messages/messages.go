// Package messages holds the enumerated user-facing message catalog.
// Every string shown to a form user resolves through a typed Key so a
// missing translation is caught at the lookup site instead of silently
// rendering a raw identifier.
package messages

import "log/slog"

// Key identifies a user-facing message
type Key string

const (
	KeySendSuccess       Key = "contact.send_success"
	KeySendError         Key = "contact.send_error"
	KeySpamRejected      Key = "contact.spam_rejected"
	KeyTooManyClicks     Key = "contact.too_many_clicks"
	KeyFieldsRequired    Key = "contact.fields_required"
	KeyNameTooShort      Key = "contact.name_too_short"
	KeyNameTooLong       Key = "contact.name_too_long"
	KeyNameCharset       Key = "contact.name_charset"
	KeyEmailInvalid      Key = "contact.email_invalid"
	KeyEmailTooLong      Key = "contact.email_too_long"
	KeyMessageTooShort   Key = "contact.message_too_short"
	KeyMessageTooLong    Key = "contact.message_too_long"
	KeyMessageHTML       Key = "contact.message_html"
	KeyContentNotAllowed Key = "contact.content_not_allowed"
	KeyContentSuspicious Key = "contact.content_suspicious"
	KeyMailUnavailable   Key = "contact.mail_unavailable"
	KeyServerError       Key = "contact.server_error"
	KeyRouteUnavailable  Key = "contact.route_unavailable"
)

// Lang selects a message table
type Lang string

const (
	LangEN Lang = "en"
	LangES Lang = "es"
)

var tables = map[Lang]map[Key]string{
	LangEN: {
		KeySendSuccess:       "Message sent successfully",
		KeySendError:         "Something went wrong sending your message. Please try again.",
		KeySpamRejected:      "Your message could not be sent. Please try again later.",
		KeyTooManyClicks:     "Too many attempts. Please wait a moment.",
		KeyFieldsRequired:    "All fields are required",
		KeyNameTooShort:      "Name must be at least 2 characters",
		KeyNameTooLong:       "Name cannot exceed 50 characters",
		KeyNameCharset:       "Name can only contain letters, spaces and hyphens",
		KeyEmailInvalid:      "Please enter a valid email",
		KeyEmailTooLong:      "Email cannot exceed 100 characters",
		KeyMessageTooShort:   "Message must be at least 10 characters",
		KeyMessageTooLong:    "Message cannot exceed 1000 characters",
		KeyMessageHTML:       "Message cannot contain HTML characters",
		KeyContentNotAllowed: "The form contains content that is not allowed",
		KeyContentSuspicious: "The message contains suspicious content",
		KeyMailUnavailable:   "Email configuration is not available",
		KeyServerError:       "Internal server error. Please try again.",
		KeyRouteUnavailable:  "Route not available",
	},
	LangES: {
		KeySendSuccess:       "Mensaje enviado correctamente",
		KeySendError:         "Algo salió mal al enviar tu mensaje. Por favor, intenta nuevamente.",
		KeySpamRejected:      "Tu mensaje no pudo ser enviado. Intenta nuevamente más tarde.",
		KeyTooManyClicks:     "Demasiados intentos. Espera un momento.",
		KeyFieldsRequired:    "Todos los campos son requeridos",
		KeyNameTooShort:      "El nombre debe tener al menos 2 caracteres",
		KeyNameTooLong:       "El nombre no puede exceder 50 caracteres",
		KeyNameCharset:       "El nombre solo puede contener letras, espacios y guiones",
		KeyEmailInvalid:      "Por favor, ingresa un email válido",
		KeyEmailTooLong:      "El email no puede exceder 100 caracteres",
		KeyMessageTooShort:   "El mensaje debe tener al menos 10 caracteres",
		KeyMessageTooLong:    "El mensaje no puede exceder 1000 caracteres",
		KeyMessageHTML:       "El mensaje no puede contener caracteres HTML",
		KeyContentNotAllowed: "El formulario contiene contenido no permitido",
		KeyContentSuspicious: "El mensaje contiene contenido sospechoso",
		KeyMailUnavailable:   "Configuración de email no disponible",
		KeyServerError:       "Error interno del servidor. Por favor, intenta nuevamente.",
		KeyRouteUnavailable:  "Ruta no disponible",
	},
}

// Catalog resolves message keys for a fixed language
type Catalog struct {
	lang   Lang
	logger *slog.Logger
}

// NewCatalog creates a catalog for the given language, falling back to
// English for unknown languages.
func NewCatalog(lang Lang, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	if _, ok := tables[lang]; !ok {
		logger.Warn("Unknown message language, falling back to English", "lang", string(lang))
		lang = LangEN
	}
	return &Catalog{lang: lang, logger: logger}
}

// Get returns the message for key. A missing key logs the miss and returns
// the raw key string as an explicit default.
func (c *Catalog) Get(key Key) string {
	if msg, ok := tables[c.lang][key]; ok {
		return msg
	}
	if msg, ok := tables[LangEN][key]; ok {
		c.logger.Warn("Message key missing for language, using English", "key", string(key), "lang", string(c.lang))
		return msg
	}
	c.logger.Warn("Unknown message key, returning raw key", "key", string(key))
	return string(key)
}
