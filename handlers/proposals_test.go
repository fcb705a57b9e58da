// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/valentine/models"
	"github.com/danielhkuo/valentine/services"
	"github.com/danielhkuo/valentine/testutil"
)

// setupServices opens a test database and the service bundle over it.
// Background view writes are drained before the database closes.
func setupServices(t *testing.T) (*sql.DB, *services.Services) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := services.New(db, testutil.GetTestConfig())
	t.Cleanup(func() {
		svc.Views.Wait()
		db.Close()
	})
	return db, svc
}

func strPtr(s string) *string { return &s }

func TestCreateProposal(t *testing.T) {
	db, svc := setupServices(t)
	handler := NewProposalHandler(svc)
	ownerID := testutil.CreateTestAccount(t, db, "alex@example.com")

	testCases := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "valid proposal",
			body:           models.CreateProposalRequest{CreatorName: "Alex", PartnerName: "Sam", Message: strPtr("Be mine?")},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing creator name",
			body:           models.CreateProposalRequest{PartnerName: "Sam"},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "creatorName and partnerName are required",
		},
		{
			name:           "whitespace partner name",
			body:           models.CreateProposalRequest{CreatorName: "Alex", PartnerName: "   "},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "creatorName and partnerName are required",
		},
		{
			name:           "markup only name",
			body:           models.CreateProposalRequest{CreatorName: "<b></b>", PartnerName: "Sam"},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "creatorName and partnerName are required",
		},
		{
			name: "oversized photo",
			body: models.CreateProposalRequest{
				CreatorName: "Alex",
				PartnerName: "Sam",
				Photo:       strPtr(strings.Repeat("a", models.MaxPhotoLength+1)),
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "photo too large, maximum size is 5MB",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.AsAccount(testutil.MakeRequest("POST", "/proposals", tc.body, nil), ownerID)
			w := httptest.NewRecorder()

			handler.Create(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)

			if tc.expectedStatus == http.StatusCreated {
				var p models.Proposal
				testutil.AssertJSON(t, w, &p)
				if len(p.Slug) != models.SlugLength {
					t.Errorf("Expected %d character slug, got '%s'", models.SlugLength, p.Slug)
				}
				if p.OwnerID != ownerID {
					t.Errorf("Expected owner %s, got %s", ownerID, p.OwnerID)
				}
				return
			}

			var errResp models.ErrorResponse
			testutil.AssertJSON(t, w, &errResp)
			if errResp.Message != tc.expectedMsg {
				t.Errorf("Expected message '%s', got '%s'", tc.expectedMsg, errResp.Message)
			}
		})
	}
}

func TestCreateProposal_InvalidJSON(t *testing.T) {
	db, svc := setupServices(t)
	handler := NewProposalHandler(svc)
	ownerID := testutil.CreateTestAccount(t, db, "alex@example.com")

	req := httptest.NewRequest("POST", "/proposals", strings.NewReader("{not json"))
	req = testutil.AsAccount(req, ownerID)
	w := httptest.NewRecorder()

	handler.Create(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestOwnerRoutes_RequireAccount(t *testing.T) {
	_, svc := setupServices(t)
	handler := NewProposalHandler(svc)

	routes := []struct {
		name    string
		method  string
		path    string
		handler http.HandlerFunc
	}{
		{"list", "GET", "/proposals", handler.List},
		{"create", "POST", "/proposals", handler.Create},
		{"update", "PUT", "/proposals", handler.Update},
		{"delete", "DELETE", "/proposals?id=x", handler.Delete},
	}

	for _, rt := range routes {
		t.Run(rt.name, func(t *testing.T) {
			req := testutil.MakeRequest(rt.method, rt.path, map[string]string{}, nil)
			w := httptest.NewRecorder()

			rt.handler(w, req)

			testutil.AssertStatus(t, w, http.StatusUnauthorized)
		})
	}
}

func TestGetPublicProposal(t *testing.T) {
	db, svc := setupServices(t)
	handler := NewProposalHandler(svc)
	ownerID := testutil.CreateTestAccount(t, db, "alex@example.com")
	proposalID, slug := testutil.CreateTestProposal(t, db, ownerID, "Alex", "Sam")

	t.Run("existing slug", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/proposals/"+slug, nil)
		req.SetPathValue("slug", slug)
		w := httptest.NewRecorder()

		handler.GetPublic(w, req)
		svc.Views.Wait()

		testutil.AssertStatus(t, w, http.StatusOK)

		var raw map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if _, ok := raw["ownerId"]; ok {
			t.Error("Public proposal must not include ownerId")
		}
		if raw["creatorName"] != "Alex" || raw["partnerName"] != "Sam" {
			t.Errorf("Unexpected names: %v / %v", raw["creatorName"], raw["partnerName"])
		}

		if n := testutil.CountRows(t, db, "proposal_view", proposalID); n != 1 {
			t.Errorf("Expected 1 view recorded, got %d", n)
		}
	})

	t.Run("unknown slug", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/proposals/zzzzzzzz", nil)
		req.SetPathValue("slug", "zzzzzzzz")
		w := httptest.NewRecorder()

		handler.GetPublic(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("malformed slug", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/proposals/bad", nil)
		req.SetPathValue("slug", "bad!")
		w := httptest.NewRecorder()

		handler.GetPublic(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestGetPublicProposal_ViewStoreDown(t *testing.T) {
	db, svc := setupServices(t)
	handler := NewProposalHandler(svc)
	ownerID := testutil.CreateTestAccount(t, db, "alex@example.com")
	_, slug := testutil.CreateTestProposal(t, db, ownerID, "Alex", "Sam")

	fetch := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/proposals/"+slug, nil)
		req.SetPathValue("slug", slug)
		w := httptest.NewRecorder()
		handler.GetPublic(w, req)
		svc.Views.Wait()
		return w
	}

	before := fetch()
	testutil.AssertStatus(t, before, http.StatusOK)

	if _, err := db.Exec(`DROP TABLE proposal_view`); err != nil {
		t.Fatalf("Failed to drop view table: %v", err)
	}

	after := fetch()
	testutil.AssertStatus(t, after, http.StatusOK)
	if before.Body.String() != after.Body.String() {
		t.Errorf("Expected identical body with view store down.\nbefore: %s\nafter:  %s", before.Body.String(), after.Body.String())
	}
}

func TestListProposals(t *testing.T) {
	db, svc := setupServices(t)
	handler := NewProposalHandler(svc)
	ownerID := testutil.CreateTestAccount(t, db, "alex@example.com")
	otherID := testutil.CreateTestAccount(t, db, "other@example.com")

	proposalID, _ := testutil.CreateTestProposal(t, db, ownerID, "Alex", "Sam")
	testutil.CreateTestProposal(t, db, otherID, "Jo", "Kim")
	testutil.CreateTestResponse(t, db, proposalID, 4200, 3)

	req := testutil.AsAccount(httptest.NewRequest("GET", "/proposals", nil), ownerID)
	w := httptest.NewRecorder()

	handler.List(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var list []models.ProposalWithStats
	testutil.AssertJSON(t, w, &list)

	if len(list) != 1 {
		t.Fatalf("Expected 1 proposal, got %d", len(list))
	}
	if list[0].ID != proposalID {
		t.Errorf("Expected proposal %s, got %s", proposalID, list[0].ID)
	}
	if len(list[0].Responses) != 1 || list[0].Responses[0].NoAttempts != 3 {
		t.Errorf("Expected one response with 3 dodges, got %+v", list[0].Responses)
	}
}

func TestListProposals_EmptyIsArray(t *testing.T) {
	db, svc := setupServices(t)
	handler := NewProposalHandler(svc)
	ownerID := testutil.CreateTestAccount(t, db, "alex@example.com")

	req := testutil.AsAccount(httptest.NewRequest("GET", "/proposals", nil), ownerID)
	w := httptest.NewRecorder()

	handler.List(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("Expected empty JSON array, got '%s'", body)
	}
}

func TestUpdateProposal(t *testing.T) {
	db, svc := setupServices(t)
	handler := NewProposalHandler(svc)
	ownerID := testutil.CreateTestAccount(t, db, "alex@example.com")
	otherID := testutil.CreateTestAccount(t, db, "other@example.com")
	proposalID, _ := testutil.CreateTestProposal(t, db, ownerID, "Alex", "Sam")

	t.Run("partial update keeps other fields", func(t *testing.T) {
		body := models.UpdateProposalRequest{ID: proposalID, PartnerName: strPtr("Samantha")}
		req := testutil.AsAccount(testutil.MakeRequest("PUT", "/proposals", body, nil), ownerID)
		w := httptest.NewRecorder()

		handler.Update(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var p models.Proposal
		testutil.AssertJSON(t, w, &p)
		if p.PartnerName != "Samantha" {
			t.Errorf("Expected partner 'Samantha', got '%s'", p.PartnerName)
		}
		if p.CreatorName != "Alex" {
			t.Errorf("Expected creator unchanged, got '%s'", p.CreatorName)
		}
		if p.Message == nil || *p.Message != "Will you be my valentine?" {
			t.Errorf("Expected message unchanged, got %v", p.Message)
		}
	})

	t.Run("missing id", func(t *testing.T) {
		body := models.UpdateProposalRequest{CreatorName: strPtr("X")}
		req := testutil.AsAccount(testutil.MakeRequest("PUT", "/proposals", body, nil), ownerID)
		w := httptest.NewRecorder()

		handler.Update(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("not owner", func(t *testing.T) {
		body := models.UpdateProposalRequest{ID: proposalID, CreatorName: strPtr("Mallory")}
		req := testutil.AsAccount(testutil.MakeRequest("PUT", "/proposals", body, nil), otherID)
		w := httptest.NewRecorder()

		handler.Update(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("unknown id", func(t *testing.T) {
		body := models.UpdateProposalRequest{ID: "does-not-exist", CreatorName: strPtr("X")}
		req := testutil.AsAccount(testutil.MakeRequest("PUT", "/proposals", body, nil), ownerID)
		w := httptest.NewRecorder()

		handler.Update(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestDeleteProposal(t *testing.T) {
	db, svc := setupServices(t)
	handler := NewProposalHandler(svc)
	ownerID := testutil.CreateTestAccount(t, db, "alex@example.com")
	otherID := testutil.CreateTestAccount(t, db, "other@example.com")
	proposalID, _ := testutil.CreateTestProposal(t, db, ownerID, "Alex", "Sam")
	testutil.CreateTestResponse(t, db, proposalID, 1000, 1)
	testutil.CreateTestResponse(t, db, proposalID, 2000, 2)

	t.Run("missing id", func(t *testing.T) {
		req := testutil.AsAccount(httptest.NewRequest("DELETE", "/proposals", nil), ownerID)
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("not owner", func(t *testing.T) {
		req := testutil.AsAccount(httptest.NewRequest("DELETE", "/proposals?id="+proposalID, nil), otherID)
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
		if n := testutil.CountRows(t, db, "response", proposalID); n != 2 {
			t.Errorf("Expected responses untouched, got %d", n)
		}
	})

	t.Run("owner deletes with responses", func(t *testing.T) {
		req := testutil.AsAccount(httptest.NewRequest("DELETE", "/proposals?id="+proposalID, nil), ownerID)
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.DeleteProposalResponse
		testutil.AssertJSON(t, w, &resp)
		if !resp.Success {
			t.Error("Expected success true")
		}
		if n := testutil.CountRows(t, db, "response", proposalID); n != 0 {
			t.Errorf("Expected responses removed, got %d", n)
		}
	})

	t.Run("already deleted", func(t *testing.T) {
		req := testutil.AsAccount(httptest.NewRequest("DELETE", "/proposals?id="+proposalID, nil), ownerID)
		w := httptest.NewRecorder()

		handler.Delete(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}
