package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/campuslab/campus-events-api/internal/auth"
	"github.com/campuslab/campus-events-api/internal/config"
	"github.com/campuslab/campus-events-api/internal/lifecycle"
	"github.com/campuslab/campus-events-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db            *gorm.DB
	authHandler   *auth.AuthHandler
	events        *EventHandler
	registrations *RegistrationHandler
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Location{}, &models.Event{}, &models.Registration{}, &models.ApprovalHistory{}, &models.APIKey{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	authHandler := auth.NewAuthHandler(&config.Config{JWTSecret: "test-secret"}, db)
	svc := lifecycle.NewService(db, nil)
	return &testEnv{
		db:            db,
		authHandler:   authHandler,
		events:        NewEventHandler(db, svc, authHandler),
		registrations: NewRegistrationHandler(svc, authHandler),
	}
}

func (e *testEnv) user(t *testing.T, name string, role models.Role) (models.User, string) {
	t.Helper()
	user := models.User{DiscordID: name, Username: name, Role: role, Category: "student"}
	if err := e.db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", name, err)
	}
	token, err := e.authHandler.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return user, "auth_token=" + token
}

func eventBody() EventBody {
	now := time.Now()
	return EventBody{
		Title:             "Film Society Screening",
		Description:       "Monthly screening in the auditorium",
		StartsAt:          now.Add(96 * time.Hour),
		RegistrationStart: now.Add(-time.Hour),
		RegistrationEnd:   now.Add(72 * time.Hour),
	}
}

func TestEventApprovalFlowViaHandlers(t *testing.T) {
	env := setupEnv(t)
	_, creatorCookie := env.user(t, "alice", models.RoleUser)
	_, approverCookie := env.user(t, "bob", models.RoleApprover)

	// Create
	createReq := &CreateEventRequest{Body: eventBody()}
	createReq.Cookie = creatorCookie
	created, err := env.events.HandleCreateEvent(context.Background(), createReq)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Body.Status != models.StatusDraft {
		t.Fatalf("expected draft, got %s", created.Body.Status)
	}
	eventID := created.Body.ID

	// Submit
	submitReq := &EventActionRequest{ID: eventID}
	submitReq.Cookie = creatorCookie
	submitted, err := env.events.HandleSubmitEvent(context.Background(), submitReq)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if submitted.Body.Status != models.StatusPendingApproval {
		t.Errorf("expected pending_approval, got %s", submitted.Body.Status)
	}

	// Approving your own event is rejected
	selfApprove := &EventActionRequest{ID: eventID}
	selfApprove.Cookie = creatorCookie
	if _, err := env.events.HandleApproveEvent(context.Background(), selfApprove); err == nil {
		t.Error("creator approving own event should fail")
	}

	// Approve
	approveReq := &EventActionRequest{ID: eventID}
	approveReq.Cookie = approverCookie
	approved, err := env.events.HandleApproveEvent(context.Background(), approveReq)
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if approved.Body.Status != models.StatusPublished {
		t.Errorf("expected published, got %s", approved.Body.Status)
	}
	if approved.Body.ApproverName != "bob" {
		t.Errorf("expected approver bob, got %q", approved.Body.ApproverName)
	}

	// History shows both steps
	histReq := &EventActionRequest{ID: eventID}
	histReq.Cookie = creatorCookie
	hist, err := env.events.HandleEventHistory(context.Background(), histReq)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(hist.Body) != 2 {
		t.Errorf("expected 2 history entries, got %d", len(hist.Body))
	}
}

func TestCreateEventRejectsBadDates(t *testing.T) {
	env := setupEnv(t)
	_, cookie := env.user(t, "alice", models.RoleUser)

	body := eventBody()
	body.RegistrationEnd = body.StartsAt.Add(time.Hour)
	req := &CreateEventRequest{Body: body}
	req.Cookie = cookie

	if _, err := env.events.HandleCreateEvent(context.Background(), req); err == nil {
		t.Fatal("expected error for registration ending after event start")
	}

	var count int64
	env.db.Model(&models.Event{}).Count(&count)
	if count != 0 {
		t.Errorf("invalid event persisted, count=%d", count)
	}
}

func TestRequestRevisionViaHandlers(t *testing.T) {
	env := setupEnv(t)
	_, creatorCookie := env.user(t, "alice", models.RoleUser)
	_, approverCookie := env.user(t, "bob", models.RoleApprover)

	createReq := &CreateEventRequest{Body: eventBody()}
	createReq.Cookie = creatorCookie
	created, err := env.events.HandleCreateEvent(context.Background(), createReq)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	submitReq := &EventActionRequest{ID: created.Body.ID}
	submitReq.Cookie = creatorCookie
	if _, err := env.events.HandleSubmitEvent(context.Background(), submitReq); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	// Empty comments rejected
	revReq := &RequestRevisionRequest{ID: created.Body.ID}
	revReq.Cookie = approverCookie
	if _, err := env.events.HandleRequestRevision(context.Background(), revReq); err == nil {
		t.Error("empty comments should be rejected")
	}

	revReq.Body.Comments = "please add a location"
	res, err := env.events.HandleRequestRevision(context.Background(), revReq)
	if err != nil {
		t.Fatalf("request revision failed: %v", err)
	}
	if res.Body.Status != models.StatusRevisionRequested {
		t.Errorf("expected revision_requested, got %s", res.Body.Status)
	}
	if res.Body.RevisionComments != "please add a location" {
		t.Errorf("comments not surfaced: %q", res.Body.RevisionComments)
	}
}

func TestListEventsScopes(t *testing.T) {
	env := setupEnv(t)
	_, adminCookie := env.user(t, "carol", models.RoleAdmin)
	_, userCookie := env.user(t, "dave", models.RoleUser)

	// Admin creates and direct-publishes one event, keeps another as draft
	createReq := &CreateEventRequest{Body: eventBody()}
	createReq.Cookie = adminCookie
	published, err := env.events.HandleCreateEvent(context.Background(), createReq)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	pubReq := &EventActionRequest{ID: published.Body.ID}
	pubReq.Cookie = adminCookie
	if _, err := env.events.HandlePublishEvent(context.Background(), pubReq); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	draftBody := eventBody()
	draftBody.Title = "Unfinished Plan"
	draftReq := &CreateEventRequest{Body: draftBody}
	draftReq.Cookie = adminCookie
	if _, err := env.events.HandleCreateEvent(context.Background(), draftReq); err != nil {
		t.Fatalf("draft create failed: %v", err)
	}

	// Published scope shows only the published event
	listReq := &ListEventsRequest{Scope: "published"}
	listReq.Cookie = userCookie
	list, err := env.events.HandleListEvents(context.Background(), listReq)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list.Body) != 1 || list.Body[0].ID != published.Body.ID {
		t.Errorf("published scope wrong: %+v", list.Body)
	}

	// Mine scope shows both for the admin
	mineReq := &ListEventsRequest{Scope: "mine"}
	mineReq.Cookie = adminCookie
	mine, err := env.events.HandleListEvents(context.Background(), mineReq)
	if err != nil {
		t.Fatalf("mine list failed: %v", err)
	}
	if len(mine.Body) != 2 {
		t.Errorf("expected 2 own events, got %d", len(mine.Body))
	}

	// Pending scope is reviewer-only
	pendingReq := &ListEventsRequest{Scope: "pending"}
	pendingReq.Cookie = userCookie
	if _, err := env.events.HandleListEvents(context.Background(), pendingReq); err == nil {
		t.Error("pending scope should be forbidden for plain users")
	}
}
