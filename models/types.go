package models

import "time"

// MaxPhotoLength is the largest accepted base64 photo, in characters.
// Roughly 5MB of binary once decoded.
const MaxPhotoLength = 7_000_000

// SlugLength is the number of characters in a share slug
const SlugLength = 8

// Request types

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateProposalRequest struct {
	CreatorName string  `json:"creatorName"`
	PartnerName string  `json:"partnerName"`
	Message     *string `json:"message,omitempty"`
	Photo       *string `json:"photo,omitempty"`
}

// Nil fields keep their stored value
type UpdateProposalRequest struct {
	ID          string  `json:"id"`
	CreatorName *string `json:"creatorName,omitempty"`
	PartnerName *string `json:"partnerName,omitempty"`
	Message     *string `json:"message,omitempty"`
}

// TimeToYes and NoAttempts are the field names older clients send
type CreateResponseRequest struct {
	ProposalID  string `json:"proposalId"`
	TimeToYesMs *int64 `json:"timeToYesMs,omitempty"`
	DodgeCount  *int   `json:"dodgeCount,omitempty"`
	TimeToYes   *int64 `json:"timeToYes,omitempty"`
	NoAttempts  *int   `json:"noAttempts,omitempty"`
}

type AttachPhotoRequest struct {
	ID    string  `json:"id"`
	Photo *string `json:"photo"`
}

// Response types

type SessionResponse struct {
	Account   Account   `json:"account"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type DeleteProposalResponse struct {
	Success bool `json:"success"`
}

// Domain types

type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt"`
}

type Proposal struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	CreatorName string    `json:"creatorName"`
	PartnerName string    `json:"partnerName"`
	Message     *string   `json:"message"`
	Photo       *string   `json:"photo"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PublicProposal is what anonymous visitors see. It has no owner field.
type PublicProposal struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	CreatorName string    `json:"creatorName"`
	PartnerName string    `json:"partnerName"`
	Message     *string   `json:"message"`
	Photo       *string   `json:"photo"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ProposalWithStats struct {
	Proposal
	TotalViews     int        `json:"totalViews"`
	UniqueVisitors int        `json:"uniqueVisitors"`
	Responses      []Response `json:"responses"`
}

type Response struct {
	ID          string     `json:"id"`
	ProposalID  string     `json:"proposalId"`
	Answered    bool       `json:"answered"`
	TimeToYesMs int64      `json:"timeToYesMs"`
	NoAttempts  int        `json:"noAttempts"`
	Photo       *string    `json:"photo"`
	RespondedAt *time.Time `json:"respondedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type ProposalNames struct {
	CreatorName string `json:"creatorName"`
	PartnerName string `json:"partnerName"`
}

type ResponseWithProposal struct {
	Response
	Proposal ProposalNames `json:"proposal"`
}

type View struct {
	ID         string    `json:"id"`
	ProposalID string    `json:"proposalId"`
	IPHash     string    `json:"-"` // Never expose in JSON
	UserAgent  *string   `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
