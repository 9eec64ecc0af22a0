package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshua-takyi/devconnector/internal/models"
)

func TestAliceScenario(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")

	_, err := f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{Status: "Developer", Skills: "go,rust"}, "")
	require.NoError(t, err)

	profile, err := f.profiles.AddExperience(ctx, alice, models.ExperienceInput{
		Title:   "Eng",
		Company: "Acme",
		From:    "2021-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Eng", profile.Experience[0].Title)
	assert.Equal(t, []string{"go", "rust"}, profile.Skills)
}

func TestUpsertProfileIsKeyedByUser(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")

	first, err := f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{
		Status:   "Developer",
		Skills:   "go",
		Company:  "Acme",
		Twitter:  "tw",
		Linkedin: "li",
	}, "")
	require.NoError(t, err)

	second, err := f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{
		Status:  "Senior Developer",
		Skills:  "go,sql",
		Twitter: "tw2",
	}, "")
	require.NoError(t, err)

	_, profiles, _ := f.store.Counts()
	assert.Equal(t, 1, profiles)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Senior Developer", second.Status)
	assert.Equal(t, []string{"go", "sql"}, second.Skills)
	assert.Equal(t, "Acme", second.Company)
	assert.Equal(t, "tw2", second.Social.Twitter)
	assert.Equal(t, "li", second.Social.Linkedin)
}

func TestUpsertProfileImageBecomesAvatar(t *testing.T) {
	up := &fakeUploader{url: "https://res.cloudinary.com/demo/avatar.png"}
	f := newFixture(t, up)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")

	_, err := f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{Status: "Dev", Skills: "go"}, "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, 1, up.calls)

	user, err := f.users.GetUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, up.url, user.Avatar)

	view, err := f.profiles.GetOwnProfile(ctx, alice)
	require.NoError(t, err)
	require.NotNil(t, view.User)
	assert.Equal(t, up.url, view.User.Avatar)
	assert.Equal(t, "Alice", view.User.Name)
}

func TestUpsertProfileUploadFailureWritesNothing(t *testing.T) {
	f := newFixture(t, &fakeUploader{err: errors.New("cloudinary down")})
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")

	_, err := f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{Status: "Dev", Skills: "go"}, "https://example.com/me.png")
	require.Error(t, err)

	_, profiles, _ := f.store.Counts()
	assert.Equal(t, 0, profiles)
}

func TestUpsertProfileRejectsLocalPaths(t *testing.T) {
	up := &fakeUploader{url: "https://res.cloudinary.com/demo/avatar.png"}
	f := newFixture(t, up)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	before, err := f.users.GetUser(ctx, alice)
	require.NoError(t, err)

	for _, image := range []string{"/proc/self/environ", ".env.local", "file:///etc/passwd"} {
		_, err := f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{Status: "Dev", Skills: "go"}, image)
		requireKind(t, err, models.ErrValidation)
	}
	assert.Equal(t, 0, up.calls)

	_, profiles, _ := f.store.Counts()
	assert.Equal(t, 0, profiles)
	after, err := f.users.GetUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, before.Avatar, after.Avatar)
}

func TestUpsertProfileFailedWriteRestoresAvatar(t *testing.T) {
	up := &fakeUploader{url: "https://res.cloudinary.com/demo/avatar.png"}
	f := newFixture(t, up)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	before, err := f.users.GetUser(ctx, alice)
	require.NoError(t, err)

	f.store.FailOn("UpsertProfile", errors.New("write failed"))
	_, err = f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{Status: "Dev", Skills: "go"}, "data:image/png;base64,AAAA")
	require.Error(t, err)
	f.store.FailOn("UpsertProfile", nil)
	assert.Equal(t, 1, up.calls)

	after, err := f.users.GetUser(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, before.Avatar, after.Avatar)
	_, profiles, _ := f.store.Counts()
	assert.Equal(t, 0, profiles)
}

func TestUpsertProfileAvatarFailureWritesNoProfile(t *testing.T) {
	f := newFixture(t, &fakeUploader{url: "https://res.cloudinary.com/demo/avatar.png"})
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")

	f.store.FailOn("UpdateUserAvatar", errors.New("write failed"))
	_, err := f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{Status: "Dev", Skills: "go"}, "data:image/png;base64,AAAA")
	require.Error(t, err)

	_, profiles, _ := f.store.Counts()
	assert.Equal(t, 0, profiles)
}

func TestUpsertProfileWithoutSkillsStartsEmpty(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")

	p, err := f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{Status: "Dev", Youtube: "yt"}, "")
	require.NoError(t, err)
	assert.Empty(t, p.Skills)
	assert.Empty(t, p.Experience)
	assert.Equal(t, "yt", p.Social.Youtube)

	p, err = f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{Skills: "go", Facebook: "fb"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Dev", p.Status)
	assert.Equal(t, []string{"go"}, p.Skills)
	assert.Equal(t, "yt", p.Social.Youtube)
	assert.Equal(t, "fb", p.Social.Facebook)
}

func TestUpsertProfileImageWithoutUploader(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "Alice", "alice@example.com")

	_, err := f.profiles.UpsertProfile(context.Background(), alice, models.ProfileFields{Status: "Dev", Skills: "go"}, "data:image/png;base64,AAAA")
	requireKind(t, err, models.ErrValidation)
}

func TestGetProfiles(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	bob := f.register(t, "Bob", "bob@example.com")

	_, err := f.profiles.GetOwnProfile(ctx, alice)
	requireKind(t, err, models.ErrNotFound)
	assert.Equal(t, "There is no profile for this user", err.Error())

	_, err = f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{Status: "Dev", Skills: "go"}, "")
	require.NoError(t, err)
	_, err = f.profiles.UpsertProfile(ctx, bob, models.ProfileFields{Status: "Dev", Skills: "js"}, "")
	require.NoError(t, err)

	all, err := f.profiles.ListProfiles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	view, err := f.profiles.GetProfileByUser(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, "Bob", view.User.Name)

	_, err = f.profiles.GetProfileByUser(ctx, "not-an-id")
	requireKind(t, err, models.ErrNotFound)
	assert.Equal(t, "Profile not found", err.Error())
}

func TestAddExperienceRejectsInvertedDates(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	_, err := f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{Status: "Dev", Skills: "go"}, "")
	require.NoError(t, err)

	_, err = f.profiles.AddExperience(ctx, alice, models.ExperienceInput{
		Title: "Eng", Company: "Acme", From: "2020-01-01", To: "2019-01-01",
	})
	requireKind(t, err, models.ErrValidation)

	view, err := f.profiles.GetOwnProfile(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, view.Experience)
}

func TestAddExperienceWithoutProfile(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "Alice", "alice@example.com")

	_, err := f.profiles.AddExperience(context.Background(), alice, models.ExperienceInput{
		Title: "Eng", Company: "Acme", From: "2020-01-01",
	})
	requireKind(t, err, models.ErrNotFound)
}

func TestAddExperienceRequiresFields(t *testing.T) {
	f := newFixture(t, nil)
	alice := f.register(t, "Alice", "alice@example.com")

	_, err := f.profiles.AddExperience(context.Background(), alice, models.ExperienceInput{Title: "Eng"})
	requireKind(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), "company is required")
}

func TestExperienceUpdateAndRemoveByID(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	_, err := f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{Status: "Dev", Skills: "go"}, "")
	require.NoError(t, err)

	_, err = f.profiles.AddExperience(ctx, alice, models.ExperienceInput{Title: "Old", Company: "A", From: "2018-01-01"})
	require.NoError(t, err)
	p, err := f.profiles.AddExperience(ctx, alice, models.ExperienceInput{Title: "New", Company: "B", From: "2020-01-01"})
	require.NoError(t, err)
	oldID := p.Experience[1].ID.Hex()

	p, err = f.profiles.UpdateExperience(ctx, alice, oldID, models.ExperienceInput{Title: "Older", Company: "A", From: "2017-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "New", p.Experience[0].Title)
	assert.Equal(t, "Older", p.Experience[1].Title)
	assert.Equal(t, oldID, p.Experience[1].ID.Hex())

	// an unknown id must not touch the last entry
	_, err = f.profiles.RemoveExperience(ctx, alice, "5f1d7f3e9b1e8a3c4c8b4567")
	requireKind(t, err, models.ErrNotFound)
	_, err = f.profiles.UpdateExperience(ctx, alice, "bad", models.ExperienceInput{Title: "X"})
	requireKind(t, err, models.ErrNotFound)

	p, err = f.profiles.RemoveExperience(ctx, alice, oldID)
	require.NoError(t, err)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "New", p.Experience[0].Title)
}

func TestUpdateEntriesRequireFields(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	_, err := f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{Status: "Dev", Skills: "go"}, "")
	require.NoError(t, err)
	p, err := f.profiles.AddExperience(ctx, alice, models.ExperienceInput{Title: "Eng", Company: "Acme", From: "2020-01-01"})
	require.NoError(t, err)
	expID := p.Experience[0].ID.Hex()
	p, err = f.profiles.AddEducation(ctx, alice, models.EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2010-09-01"})
	require.NoError(t, err)
	eduID := p.Education[0].ID.Hex()

	_, err = f.profiles.UpdateExperience(ctx, alice, expID, models.ExperienceInput{})
	requireKind(t, err, models.ErrValidation)
	_, err = f.profiles.UpdateExperience(ctx, alice, expID, models.ExperienceInput{Title: "Eng", Company: "Acme"})
	requireKind(t, err, models.ErrValidation)
	_, err = f.profiles.UpdateEducation(ctx, alice, eduID, models.EducationInput{})
	requireKind(t, err, models.ErrValidation)

	view, err := f.profiles.GetOwnProfile(ctx, alice)
	require.NoError(t, err)
	require.Len(t, view.Experience, 1)
	assert.Equal(t, "Eng", view.Experience[0].Title)
	assert.False(t, view.Experience[0].From.IsZero())
	require.Len(t, view.Education, 1)
	assert.Equal(t, "MIT", view.Education[0].School)
}

func TestEducationLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	_, err := f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{Status: "Dev", Skills: "go"}, "")
	require.NoError(t, err)

	_, err = f.profiles.AddEducation(ctx, alice, models.EducationInput{School: "MIT"})
	requireKind(t, err, models.ErrValidation)

	p, err := f.profiles.AddEducation(ctx, alice, models.EducationInput{
		School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2010-09-01", To: "2014-06-01",
	})
	require.NoError(t, err)
	require.Len(t, p.Education, 1)
	eduID := p.Education[0].ID.Hex()

	p, err = f.profiles.UpdateEducation(ctx, alice, eduID, models.EducationInput{
		School: "MIT", Degree: "MSc", FieldOfStudy: "CS", From: "2014-09-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "MSc", p.Education[0].Degree)
	assert.Equal(t, eduID, p.Education[0].ID.Hex())

	_, err = f.profiles.RemoveEducation(ctx, alice, "5f1d7f3e9b1e8a3c4c8b4567")
	requireKind(t, err, models.ErrNotFound)

	p, err = f.profiles.RemoveEducation(ctx, alice, eduID)
	require.NoError(t, err)
	assert.Empty(t, p.Education)
}

func TestFailedSaveLeavesProfileUnchanged(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := f.register(t, "Alice", "alice@example.com")
	_, err := f.profiles.UpsertProfile(ctx, alice, models.ProfileFields{Status: "Dev", Skills: "go"}, "")
	require.NoError(t, err)

	f.store.FailOn("SaveProfile", errors.New("write failed"))
	_, err = f.profiles.AddExperience(ctx, alice, models.ExperienceInput{Title: "Eng", Company: "Acme", From: "2020-01-01"})
	require.Error(t, err)
	f.store.FailOn("SaveProfile", nil)

	view, err := f.profiles.GetOwnProfile(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, view.Experience)
}
