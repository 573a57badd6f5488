package service

import (
	"context"
	"encoding/json"
	"testing"

	"socialnet/internal/models"
	"socialnet/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserServiceFixture(t *testing.T) (*UserService, *sqliteStores) {
	t.Helper()
	stores := newSQLiteStores(testutil.NewSQLiteDB(t))
	svc := NewUserService(stores.users, NewCredentialService(testConfig(), nil), stores.graph, 5)
	return svc, stores
}

func validRegistration() RegisterInput {
	return RegisterInput{
		Name:     "Grace",
		Surname:  "Hopper",
		Nick:     "grace",
		Email:    "Grace@Example.com",
		Password: "cobol-rules",
	}
}

func TestUserService_RegisterNeverExposesPassword(t *testing.T) {
	t.Parallel()

	svc, stores := newUserServiceFixture(t)
	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "grace@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)

	body, err := json.Marshal(user)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.NotContains(t, decoded, "password")
	assert.NotContains(t, string(body), "cobol-rules")

	stored, err := stores.users.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "cobol-rules", stored.Password)
	assert.NotEmpty(t, stored.Password)
}

func TestUserService_RegisterValidation(t *testing.T) {
	t.Parallel()

	svc, _ := newUserServiceFixture(t)
	tests := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing name", func(in *RegisterInput) { in.Name = "" }},
		{"missing surname", func(in *RegisterInput) { in.Surname = "  " }},
		{"missing nick", func(in *RegisterInput) { in.Nick = "" }},
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"missing password", func(in *RegisterInput) { in.Password = "" }},
		{"bad email", func(in *RegisterInput) { in.Email = "grace-at-example" }},
		{"short nick", func(in *RegisterInput) { in.Nick = "gh" }},
		{"short password", func(in *RegisterInput) { in.Password = "abc" }},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			in := validRegistration()
			tc.mutate(&in)
			_, err := svc.Register(context.Background(), in)
			assertAppErrorCode(t, err, models.CodeValidation)
		})
	}
}

func TestUserService_RegisterDuplicate(t *testing.T) {
	t.Parallel()

	svc, _ := newUserServiceFixture(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	sameEmail := validRegistration()
	sameEmail.Nick = "another"
	sameEmail.Email = "GRACE@example.COM"
	_, err = svc.Register(ctx, sameEmail)
	assertAppErrorCode(t, err, models.CodeValidation)

	sameNick := validRegistration()
	sameNick.Nick = "GRACE"
	sameNick.Email = "other@example.com"
	_, err = svc.Register(ctx, sameNick)
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestUserService_Login(t *testing.T) {
	t.Parallel()

	svc, _ := newUserServiceFixture(t)
	ctx := context.Background()
	registered, err := svc.Register(ctx, validRegistration())
	require.NoError(t, err)

	res, err := svc.Login(ctx, LoginInput{Email: "grace@example.com", Password: "cobol-rules"})
	require.NoError(t, err)
	assert.Empty(t, res.Token)
	assert.Equal(t, registered.ID, res.User.ID)

	res, err = svc.Login(ctx, LoginInput{Email: "GRACE@example.com", Password: "cobol-rules", GetToken: true})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	claims, err := svc.creds.ParseToken(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "grace", claims.Nick)

	_, err = svc.Login(ctx, LoginInput{Email: "grace@example.com", Password: "wrong-pass"})
	assertAppErrorCode(t, err, models.CodeNotFound)

	_, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "cobol-rules"})
	assertAppErrorCode(t, err, models.CodeNotFound)

	_, err = svc.Login(ctx, LoginInput{Email: "", Password: ""})
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestUserService_Profile(t *testing.T) {
	t.Parallel()

	svc, stores := newUserServiceFixture(t)
	ctx := context.Background()
	viewer := testutil.CreateUser(t, stores.db)
	target := testutil.CreateUser(t, stores.db)
	testutil.CreateFollow(t, stores.db, target.ID, viewer.ID)

	profile, err := svc.Profile(ctx, viewer.ID, target.ID)
	require.NoError(t, err)
	assert.Equal(t, target.ID, profile.User.ID)
	assert.Nil(t, profile.Following)
	require.NotNil(t, profile.Followed)
	assert.Equal(t, target.ID, profile.Followed.UserID)

	_, err = svc.Profile(ctx, viewer.ID, 9999)
	assertAppErrorCode(t, err, models.CodeNotFound)
}

func TestUserService_ListUsers(t *testing.T) {
	t.Parallel()

	svc, stores := newUserServiceFixture(t)
	ctx := context.Background()
	viewer := testutil.CreateUser(t, stores.db)
	others := make([]*models.User, 6)
	for i := range others {
		others[i] = testutil.CreateUser(t, stores.db)
	}
	testutil.CreateFollow(t, stores.db, viewer.ID, others[0].ID)
	testutil.CreateFollow(t, stores.db, others[1].ID, viewer.ID)

	page, err := svc.ListUsers(ctx, viewer.ID, 1)
	require.NoError(t, err)
	assert.Len(t, page.Users, 5)
	assert.Equal(t, int64(7), page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, []uint{others[0].ID}, page.UsersFollowing)
	assert.Equal(t, []uint{others[1].ID}, page.UsersFollowed)
	assert.Equal(t, viewer.ID, page.Users[0].ID)

	page, err = svc.ListUsers(ctx, viewer.ID, 2)
	require.NoError(t, err)
	assert.Len(t, page.Users, 2)

	page, err = svc.ListUsers(ctx, viewer.ID, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Users)
	assert.NotNil(t, page.Users)

	_, err = svc.ListUsers(ctx, viewer.ID, 0)
	assertAppErrorCode(t, err, models.CodeValidation)
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	svc, stores := newUserServiceFixture(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, stores.db, func(u *models.User) { u.Image = "kept.png" })
	other := testutil.CreateUser(t, stores.db)

	t.Run("owner updates profile fields", func(t *testing.T) {
		updated, err := svc.UpdateProfile(ctx, UpdateProfileInput{
			CallerID: owner.ID,
			TargetID: owner.ID,
			Name:     "Renamed",
			Email:    "Renamed@Example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, owner.Surname, updated.Surname)
		assert.Equal(t, "renamed@example.com", updated.Email)

		stored, err := stores.users.GetByID(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", stored.Name)
		assert.Equal(t, "hashed", stored.Password)
		assert.Equal(t, models.RoleUser, stored.Role)
		assert.Equal(t, "kept.png", stored.Image)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{CallerID: other.ID, TargetID: owner.ID, Name: "Hijack"})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("nick collision", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{CallerID: owner.ID, TargetID: owner.ID, Nick: other.Nick})
		assertAppErrorCode(t, err, models.CodeValidation)
	})

	t.Run("keeping own nick is allowed", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{CallerID: owner.ID, TargetID: owner.ID, Nick: owner.Nick})
		assert.NoError(t, err)
	})
}

func TestUserService_Counters(t *testing.T) {
	t.Parallel()

	svc, stores := newUserServiceFixture(t)
	ctx := context.Background()
	u := testutil.CreateUser(t, stores.db)
	v := testutil.CreateUser(t, stores.db)
	testutil.CreateFollow(t, stores.db, u.ID, v.ID)
	testutil.CreatePublication(t, stores.db, u.ID, "hi", 1)

	counters, err := svc.Counters(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FollowCounters{Following: 1, Followed: 0, Publications: 1}, *counters)

	_, err = svc.Counters(ctx, 9999)
	assertAppErrorCode(t, err, models.CodeNotFound)
}
