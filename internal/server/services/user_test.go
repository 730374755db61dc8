package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/filecove/filecove/internal/common"
	"github.com/filecove/filecove/internal/server/auth"
)

func TestUserService_RegisterAndLogin(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	store := newFakeStore()
	svc := NewUserService(db, rm, store, testConfig())

	user, token, err := svc.Register(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.PasswordHash == "s3cret" {
		t.Fatal("password stored in the clear")
	}

	userID, err := auth.GetUserIDFromToken(token, []byte("k"))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("token bound to wrong user: %d != %d", userID, user.ID)
	}

	_, token2, err := svc.Login(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if userID, _ := auth.GetUserIDFromToken(token2, []byte("k")); userID != user.ID {
		t.Fatalf("login token bound to wrong user")
	}
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	svc := NewUserService(db, rm, newFakeStore(), testConfig())

	if _, _, err := svc.Register(context.Background(), "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	_, _, err := svc.Register(context.Background(), "alice@example.com", "other")
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want common.ErrValidation, got %v", err)
	}
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	svc := NewUserService(db, rm, newFakeStore(), testConfig())

	if _, _, err := svc.Register(context.Background(), "alice@example.com", "s3cret"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong")
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("want common.ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_Login_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	svc := NewUserService(db, newFakeRepoManager(), newFakeStore(), testConfig())

	_, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	if !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("want common.ErrInvalidCredentials, got %v", err)
	}
}

func TestUserService_AvatarFlow(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	store := newFakeStore()
	svc := NewUserService(db, rm, store, testConfig())

	user, _, err := svc.Register(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	ticket, err := svc.RequestAvatarUpload(context.Background(), user.ID, "image/png")
	if err != nil {
		t.Fatalf("RequestAvatarUpload error: %v", err)
	}
	if !strings.HasPrefix(ticket.StorageKey, "users/1/avatar/") {
		t.Fatalf("avatar key outside user namespace: %s", ticket.StorageKey)
	}

	// client uploads
	store.objects[ticket.StorageKey] = true

	updated, err := svc.ConfirmAvatarUpload(context.Background(), user.ID, ticket.StorageKey)
	if err != nil {
		t.Fatalf("ConfirmAvatarUpload error: %v", err)
	}
	if updated.AvatarKey == nil || *updated.AvatarKey != ticket.StorageKey {
		t.Fatalf("avatar key not recorded: %+v", updated)
	}

	_, avatarURL, err := svc.Profile(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Profile error: %v", err)
	}
	if avatarURL == "" {
		t.Fatal("expected presigned avatar URL")
	}
}

func TestUserService_RequestAvatarUpload_RejectsNonImage(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	svc := NewUserService(db, newFakeRepoManager(), newFakeStore(), testConfig())

	_, err := svc.RequestAvatarUpload(context.Background(), 1, "application/pdf")
	if !errors.Is(err, common.ErrUnsupportedMediaType) {
		t.Fatalf("want common.ErrUnsupportedMediaType, got %v", err)
	}
}

func TestUserService_ConfirmAvatarUpload_ForeignKeyRejected(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	svc := NewUserService(db, newFakeRepoManager(), newFakeStore(), testConfig())

	_, err := svc.ConfirmAvatarUpload(context.Background(), 1, "users/2/avatar/pic.png")
	if !errors.Is(err, common.ErrAccessDenied) {
		t.Fatalf("want common.ErrAccessDenied, got %v", err)
	}
}

func TestUserService_ConfirmAvatarUpload_ObjectMissing(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	svc := NewUserService(db, rm, newFakeStore(), testConfig())

	user, _, err := svc.Register(context.Background(), "alice@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	_, err = svc.ConfirmAvatarUpload(context.Background(), user.ID, "users/1/avatar/never-uploaded.png")
	if !errors.Is(err, common.ErrObjectMissing) {
		t.Fatalf("want common.ErrObjectMissing, got %v", err)
	}
}
