// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/valentine/models"
	"github.com/danielhkuo/valentine/testutil"
)

// TestFullProposalWorkflow tests the complete end-to-end workflow:
// 1. Owner registers
// 2. Owner creates a proposal
// 3. Partner opens the share link
// 4. Partner says yes after dodging
// 5. Partner attaches a photo
// 6. Owner sees views and the response
// 7. Owner deletes the proposal
func TestFullProposalWorkflow(t *testing.T) {
	db, svc := setupServices(t)
	sm := newTestSessions()
	accountHandler := NewAccountHandler(svc, sm)
	proposalHandler := NewProposalHandler(svc)
	responseHandler := NewResponseHandler(svc)

	// Step 1: Register
	w := httptest.NewRecorder()
	accountHandler.Register(w, testutil.MakeRequest("POST", "/auth/register", models.RegisterRequest{
		Email: "alex@example.com", Password: "correct horse", DisplayName: "Alex",
	}, nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Register failed: %d - %s", w.Code, w.Body.String())
	}
	var session models.SessionResponse
	testutil.AssertJSON(t, w, &session)
	ownerID := session.Account.ID

	// Step 2: Create proposal
	w = httptest.NewRecorder()
	req := testutil.MakeRequest("POST", "/proposals", models.CreateProposalRequest{
		CreatorName: "Alex", PartnerName: "Sam", Message: strPtr("Will you be my valentine?"),
	}, nil)
	proposalHandler.Create(w, testutil.AsAccount(req, ownerID))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 2 - Create proposal failed: %d - %s", w.Code, w.Body.String())
	}
	var created models.Proposal
	testutil.AssertJSON(t, w, &created)
	t.Logf("Step 2 - Created proposal %s with slug %s", created.ID, created.Slug)

	// Step 3: Partner opens the link
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/proposals/"+created.Slug, nil)
	req.SetPathValue("slug", created.Slug)
	req.RemoteAddr = "203.0.113.7:5555"
	proposalHandler.GetPublic(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Public fetch failed: %d - %s", w.Code, w.Body.String())
	}
	var public map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &public); err != nil {
		t.Fatalf("Step 3 - Decode failed: %v", err)
	}
	if _, ok := public["ownerId"]; ok {
		t.Error("Step 3 - Public proposal leaked ownerId")
	}
	if public["creatorName"] != "Alex" || public["partnerName"] != "Sam" || public["message"] != "Will you be my valentine?" {
		t.Errorf("Step 3 - Unexpected public proposal: %v", public)
	}
	svc.Views.Wait()

	// Step 4: Partner says yes
	w = httptest.NewRecorder()
	responseHandler.Create(w, testutil.MakeRequest("POST", "/responses", models.CreateResponseRequest{
		ProposalID: created.ID, TimeToYesMs: int64Ptr(4200), DodgeCount: intPtr(3),
	}, nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("Step 4 - Create response failed: %d - %s", w.Code, w.Body.String())
	}
	var response models.Response
	testutil.AssertJSON(t, w, &response)
	if !response.Answered {
		t.Error("Step 4 - Expected answered=true")
	}

	// Step 5: Attach photo
	w = httptest.NewRecorder()
	responseHandler.AttachPhoto(w, testutil.MakeRequest("PUT", "/responses", models.AttachPhotoRequest{
		ID: response.ID, Photo: strPtr("data:image/jpeg;base64,/9j/4AAQ"),
	}, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 5 - Attach photo failed: %d - %s", w.Code, w.Body.String())
	}

	// Step 6: Owner dashboard
	w = httptest.NewRecorder()
	proposalHandler.List(w, testutil.AsAccount(httptest.NewRequest("GET", "/proposals", nil), ownerID))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - List failed: %d - %s", w.Code, w.Body.String())
	}
	var list []models.ProposalWithStats
	testutil.AssertJSON(t, w, &list)
	if len(list) != 1 {
		t.Fatalf("Step 6 - Expected 1 proposal, got %d", len(list))
	}
	got := list[0]
	if got.TotalViews != 1 || got.UniqueVisitors != 1 {
		t.Errorf("Step 6 - Expected 1 view and 1 visitor, got %d and %d", got.TotalViews, got.UniqueVisitors)
	}
	if len(got.Responses) != 1 {
		t.Fatalf("Step 6 - Expected 1 response, got %d", len(got.Responses))
	}
	if got.Responses[0].NoAttempts != 3 || got.Responses[0].TimeToYesMs != 4200 || !got.Responses[0].Answered {
		t.Errorf("Step 6 - Unexpected response: %+v", got.Responses[0])
	}
	if got.Responses[0].Photo == nil {
		t.Error("Step 6 - Expected the attached photo")
	}

	// Step 7: Delete
	w = httptest.NewRecorder()
	proposalHandler.Delete(w, testutil.AsAccount(httptest.NewRequest("DELETE", "/proposals?id="+created.ID, nil), ownerID))
	if w.Code != http.StatusOK {
		t.Fatalf("Step 7 - Delete failed: %d - %s", w.Code, w.Body.String())
	}
	for _, table := range []string{"response", "proposal_view"} {
		if n := testutil.CountRows(t, db, table, created.ID); n != 0 {
			t.Errorf("Step 7 - Expected no %s rows, got %d", table, n)
		}
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/proposals/"+created.Slug, nil)
	req.SetPathValue("slug", created.Slug)
	proposalHandler.GetPublic(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Step 7 - Expected 404 after delete, got %d", w.Code)
	}
}
