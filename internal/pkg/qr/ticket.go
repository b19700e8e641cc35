package qr

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

var (
	ErrInvalidTicket = errors.New("invalid ticket")
	ErrRenderFailed  = errors.New("qr rendering failed")
)

const (
	ticketAudience   = "park-and-ride-ticket"
	DefaultImageSize = 256
	maxImageSize     = 1024
)

// Ticket is the content of a reservation's QR code.
type Ticket struct {
	ReservationID uuid.UUID
	Row           int
	Col           int
	Start         time.Time
	End           time.Time
	Plate         string
}

type ticketClaims struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Plate string `json:"plate"`
	jwt.RegisteredClaims
}

// Issuer signs tickets with HS256. A ticket expires when its reservation ends.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

func (i *Issuer) Issue(t Ticket) (string, error) {
	claims := ticketClaims{
		Row:   t.Row,
		Col:   t.Col,
		Start: t.Start.Unix(),
		End:   t.End.Unix(),
		Plate: t.Plate,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        t.ReservationID.String(),
			Subject:   "parking-ticket",
			Audience:  jwt.ClaimStrings{ticketAudience},
			IssuedAt:  jwt.NewNumericDate(i.now()),
			ExpiresAt: jwt.NewNumericDate(t.End),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse verifies the signature and expiry of token.
func (i *Issuer) Parse(token string) (Ticket, error) {
	parsed, err := jwt.ParseWithClaims(token, &ticketClaims{}, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidTicket
		}
		return i.secret, nil
	}, jwt.WithAudience(ticketAudience), jwt.WithTimeFunc(i.now))
	if err != nil {
		return Ticket{}, ErrInvalidTicket
	}

	claims, ok := parsed.Claims.(*ticketClaims)
	if !ok || !parsed.Valid {
		return Ticket{}, ErrInvalidTicket
	}
	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return Ticket{}, ErrInvalidTicket
	}

	return Ticket{
		ReservationID: id,
		Row:           claims.Row,
		Col:           claims.Col,
		Start:         time.Unix(claims.Start, 0).UTC(),
		End:           time.Unix(claims.End, 0).UTC(),
		Plate:         claims.Plate,
	}, nil
}

// PNG renders token as a QR code image of size x size pixels.
func PNG(token string, size int) ([]byte, error) {
	if token == "" {
		return nil, ErrInvalidTicket
	}
	if size <= 0 {
		size = DefaultImageSize
	}
	if size > maxImageSize {
		size = maxImageSize
	}

	png, err := qrcode.Encode(token, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Join(ErrRenderFailed, err)
	}
	return png, nil
}
