// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package services

import (
	"database/sql"
	"html"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/danielhkuo/valentine/cliparse"
	"github.com/danielhkuo/valentine/models"
)

// Services bundles the application services over one database handle.
type Services struct {
	Accounts  *AccountService
	Proposals *ProposalService
	Responses *ResponseService
	Views     *ViewService
}

func New(db *sql.DB, cfg cliparse.Config) *Services {
	views := NewViewService(db, cfg.IPHashSalt)
	responses := NewResponseService(db)
	return &Services{
		Accounts:  NewAccountService(db),
		Proposals: NewProposalService(db, views, responses),
		Responses: responses,
		Views:     views,
	}
}

// textPolicy strips all markup from user-entered names and messages
var textPolicy = bluemonday.StrictPolicy()

// maxCleanPasses bounds the strip loop for nested or entity-encoded markup
const maxCleanPasses = 5

// cleanText returns s as trimmed plain text. Entities are decoded before
// stripping so encoded tags are removed like literal ones, and stripping
// repeats until nothing changes so tags spliced around removed ones do not
// survive. Input that never settles is kept in escaped form.
func cleanText(s string) string {
	for pass := 0; pass < maxCleanPasses; pass++ {
		decoded := decodeEntities(s)
		out := html.UnescapeString(textPolicy.Sanitize(decoded))
		if out == decoded {
			return strings.TrimSpace(out)
		}
		s = out
	}
	return strings.TrimSpace(textPolicy.Sanitize(decodeEntities(s)))
}

// decodeEntities unescapes until the text has no entities left, up to
// maxCleanPasses levels of encoding
func decodeEntities(s string) string {
	for i := 0; i < maxCleanPasses; i++ {
		u := html.UnescapeString(s)
		if u == s {
			break
		}
		s = u
	}
	return s
}

func checkPhoto(photo *string) error {
	if photo != nil && len(*photo) > models.MaxPhotoLength {
		return ErrPayloadTooLarge
	}
	return nil
}

// nonEmpty maps "" to nil so optional text columns store NULL
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func utcNow() time.Time {
	return time.Now().UTC()
}
