// Package webhook verifica y decodifica los webhooks del proveedor de cobro (formato Stripe).
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/talent-invoice/internal/application/account"
)

// DefaultTolerance antigüedad máxima aceptada de la firma.
const DefaultTolerance = 5 * time.Minute

// SignatureHeader cabecera con la firma del evento.
const SignatureHeader = "Stripe-Signature"

var (
	// ErrInvalidSignature firma ausente, mal formada, vencida o incorrecta.
	ErrInvalidSignature = errors.New("webhook: firma inválida")
	// ErrInvalidPayload cuerpo que no es un evento decodificable.
	ErrInvalidPayload = errors.New("webhook: payload inválido")
)

// StripeVerifier valida la cabecera Stripe-Signature (t=…,v1=…) con HMAC-SHA256 sobre "t.payload".
type StripeVerifier struct {
	secret    string
	tolerance time.Duration
	now       func() time.Time
}

// NewStripeVerifier construye el verificador. tolerance <= 0 usa DefaultTolerance.
func NewStripeVerifier(secret string, tolerance time.Duration) *StripeVerifier {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &StripeVerifier{secret: secret, tolerance: tolerance, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (v *StripeVerifier) WithClock(now func() time.Time) *StripeVerifier {
	v.now = now
	return v
}

// Verify comprueba la firma del payload crudo.
func (v *StripeVerifier) Verify(payload []byte, header string) error {
	if v.secret == "" {
		return fmt.Errorf("%w: secreto no configurado", ErrInvalidSignature)
	}
	ts, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}
	unix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: timestamp", ErrInvalidSignature)
	}
	age := v.now().Sub(time.Unix(unix, 0))
	if age > v.tolerance || age < -v.tolerance {
		return fmt.Errorf("%w: fuera de tolerancia", ErrInvalidSignature)
	}

	expected := Sign(v.secret, ts, payload)
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(expected)) {
			return nil
		}
	}
	return ErrInvalidSignature
}

// Parse verifica y decodifica el evento.
func (v *StripeVerifier) Parse(payload []byte, header string) (account.BillingEvent, error) {
	if err := v.Verify(payload, header); err != nil {
		return account.BillingEvent{}, err
	}
	return Decode(payload)
}

// Sign firma "t.payload" con el secreto y devuelve el hex de v1.
func Sign(secret, timestamp string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignatureFor arma una cabecera válida (tests y herramientas locales).
func SignatureFor(secret string, at time.Time, payload []byte) string {
	ts := strconv.FormatInt(at.Unix(), 10)
	return "t=" + ts + ",v1=" + Sign(secret, ts, payload)
}

type stripeEvent struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Data stripeEventData `json:"data"`
}

type stripeEventData struct {
	Object stripeObject `json:"object"`
}

// stripeObject campos comunes de checkout.session, subscription e invoice.
type stripeObject struct {
	Customer            string                     `json:"customer"`
	Status              string                     `json:"status"`
	ClientReferenceID   string                     `json:"client_reference_id"`
	Metadata            map[string]any             `json:"metadata"`
	SubscriptionDetails *stripeSubscriptionDetails `json:"subscription_details"`
}

type stripeSubscriptionDetails struct {
	Metadata map[string]any `json:"metadata"`
}

// Decode convierte el JSON del proveedor en account.BillingEvent.
// El usuario sale de metadata.user_id; en facturas se mira también subscription_details.metadata.
func Decode(payload []byte) (account.BillingEvent, error) {
	var evt stripeEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return account.BillingEvent{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if evt.ID == "" || evt.Type == "" {
		return account.BillingEvent{}, fmt.Errorf("%w: id o type vacío", ErrInvalidPayload)
	}

	obj := evt.Data.Object
	userID := readMetadataValue(obj.Metadata, "user_id")
	if userID == "" && obj.SubscriptionDetails != nil {
		userID = readMetadataValue(obj.SubscriptionDetails.Metadata, "user_id")
	}
	if userID == "" && evt.Type == account.EventCheckoutCompleted {
		userID = strings.TrimSpace(obj.ClientReferenceID)
	}

	out := account.BillingEvent{
		ID:         evt.ID,
		Type:       evt.Type,
		UserID:     userID,
		CustomerID: strings.TrimSpace(obj.Customer),
	}
	if evt.Type == account.EventSubscriptionUpdated {
		out.SubscriptionStatus = strings.TrimSpace(obj.Status)
	}
	return out, nil
}

func parseSignatureHeader(header string) (string, []string, error) {
	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch strings.TrimSpace(key) {
		case "t":
			timestamp = strings.TrimSpace(value)
		case "v1":
			signatures = append(signatures, strings.TrimSpace(value))
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return "", nil, fmt.Errorf("%w: cabecera incompleta", ErrInvalidSignature)
	}
	return timestamp, signatures, nil
}

func readMetadataValue(metadata map[string]any, key string) string {
	if metadata == nil {
		return ""
	}
	s, _ := metadata[key].(string)
	return strings.TrimSpace(s)
}
