//go:generate ${TOOLS_BIN}/mockgen -source ${GOFILE} -destination mock/${GOFILE} -package mock -mock_names "Decoder=Decoder"
package token

import "time"

type (
	// Decoder reads claims from a bearer token without verifying its signature.
	Decoder interface {
		Decode(token string) (*Claims, error)
	}

	Claims struct {
		Subject   string
		ExpiresAt *time.Time
		IssuedAt  *time.Time
	}
)
