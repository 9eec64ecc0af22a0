// Package storetest provides an in-memory implementation of the store
// interfaces for service and handler tests.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/joshua-takyi/devconnector/internal/models"
)

// MemStore implements models.UserRepo, models.ProfileRepo and models.PostRepo.
// Documents are copied on the way in and out, so callers only change stored
// state through the repo methods.
type MemStore struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]*models.User
	profiles map[primitive.ObjectID]*models.Profile // keyed by owner
	posts    map[primitive.ObjectID]*models.Post
	failures map[string]error
}

var (
	_ models.UserRepo    = (*MemStore)(nil)
	_ models.ProfileRepo = (*MemStore)(nil)
	_ models.PostRepo    = (*MemStore)(nil)
)

func New() *MemStore {
	return &MemStore{
		users:    map[primitive.ObjectID]*models.User{},
		profiles: map[primitive.ObjectID]*models.Profile{},
		posts:    map[primitive.ObjectID]*models.Post{},
		failures: map[string]error{},
	}
}

// FailOn makes the named method return err until cleared with a nil err.
func (m *MemStore) FailOn(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, method)
		return
	}
	m.failures[method] = err
}

func (m *MemStore) fail(method string) error {
	return m.failures[method]
}

// Counts reports how many users, profiles and posts are stored.
func (m *MemStore) Counts() (users, profiles, posts int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), len(m.profiles), len(m.posts)
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func cloneProfile(p *models.Profile) *models.Profile {
	c := *p
	c.Skills = append([]string(nil), p.Skills...)
	c.Experience = append([]models.Experience(nil), p.Experience...)
	c.Education = append([]models.Education(nil), p.Education...)
	return &c
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Likes = append([]models.Like(nil), p.Likes...)
	c.Comments = append([]models.Comment(nil), p.Comments...)
	return &c
}

// users

func (m *MemStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreateUser"); err != nil {
		return nil, err
	}
	if err := models.ValidateStruct(user); err != nil {
		return nil, err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return nil, models.NewConflictError("User already exists")
		}
	}
	user.BeforeCreate()
	m.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (m *MemStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetUserByID"); err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, models.NewNotFoundError("User not found")
	}
	return cloneUser(u), nil
}

func (m *MemStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetUserByEmail"); err != nil {
		return nil, err
	}
	for _, u := range m.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, models.NewNotFoundError("User not found")
}

func (m *MemStore) UpdateUserAvatar(ctx context.Context, id primitive.ObjectID, avatar string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpdateUserAvatar"); err != nil {
		return err
	}
	u, ok := m.users[id]
	if !ok {
		return models.NewNotFoundError("User not found")
	}
	u.Avatar = avatar
	return nil
}

func (m *MemStore) DeleteUser(ctx context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteUser"); err != nil {
		return 0, err
	}
	if _, ok := m.users[id]; !ok {
		return 0, nil
	}
	delete(m.users, id)
	return 1, nil
}

// profiles

// UpsertProfile applies the same $setOnInsert and $set documents the MongoDB
// repo sends, so dotted paths and insert defaults behave as they do there.
func (m *MemStore) UpsertProfile(ctx context.Context, userID primitive.ObjectID, fields models.ProfileFields) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("UpsertProfile"); err != nil {
		return nil, err
	}

	set := fields.SetDocument()
	doc := bson.M{}
	if stored, ok := m.profiles[userID]; ok {
		raw, err := bson.Marshal(stored)
		if err != nil {
			return nil, err
		}
		if err := bson.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
	} else {
		doc["_id"] = primitive.NewObjectID()
		for key, value := range fields.InsertDocument(userID, time.Now()) {
			if _, dup := set[key]; dup {
				return nil, fmt.Errorf("updating the path %q would create a conflict", key)
			}
			doc[key] = value
		}
	}
	for key, value := range set {
		if err := setPath(doc, key, value); err != nil {
			return nil, err
		}
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var p models.Profile
	if err := bson.Unmarshal(raw, &p); err != nil {
		return nil, err
	}
	m.profiles[userID] = &p
	return cloneProfile(&p), nil
}

// setPath assigns value at a dotted path, creating embedded documents on the
// way down.
func setPath(doc bson.M, path string, value interface{}) error {
	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		doc[head] = value
		return nil
	}
	var child bson.M
	switch v := doc[head].(type) {
	case nil:
		child = bson.M{}
	case bson.M:
		child = v
	case bson.D:
		child = make(bson.M, len(v))
		for _, e := range v {
			child[e.Key] = e.Value
		}
	default:
		return fmt.Errorf("cannot create field %q in element {%s: %v}", rest, head, v)
	}
	if err := setPath(child, rest, value); err != nil {
		return err
	}
	doc[head] = child
	return nil
}

func (m *MemStore) GetProfileByUser(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetProfileByUser"); err != nil {
		return nil, err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, models.NewNotFoundError("There is no profile for this user")
	}
	return cloneProfile(p), nil
}

func (m *MemStore) view(p *models.Profile) *models.ProfileView {
	v := &models.ProfileView{Profile: *cloneProfile(p)}
	if u, ok := m.users[p.User]; ok {
		v.User = u.Summary()
	}
	return v
}

func (m *MemStore) GetProfileViewByUser(ctx context.Context, userID primitive.ObjectID) (*models.ProfileView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetProfileViewByUser"); err != nil {
		return nil, err
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, models.NewNotFoundError("Profile not found")
	}
	return m.view(p), nil
}

func (m *MemStore) ListProfileViews(ctx context.Context) ([]*models.ProfileView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListProfileViews"); err != nil {
		return nil, err
	}
	views := make([]*models.ProfileView, 0, len(m.profiles))
	for _, p := range m.profiles {
		views = append(views, m.view(p))
	}
	sort.Slice(views, func(i, j int) bool { return views[i].Date.Before(views[j].Date) })
	return views, nil
}

func (m *MemStore) SaveProfile(ctx context.Context, profile *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("SaveProfile"); err != nil {
		return err
	}
	stored, ok := m.profiles[profile.User]
	if !ok || stored.ID != profile.ID {
		return models.NewNotFoundError("There is no profile for this user")
	}
	m.profiles[profile.User] = cloneProfile(profile)
	return nil
}

func (m *MemStore) DeleteProfileByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeleteProfileByUser"); err != nil {
		return 0, err
	}
	if _, ok := m.profiles[userID]; !ok {
		return 0, nil
	}
	delete(m.profiles, userID)
	return 1, nil
}

// posts

func (m *MemStore) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("CreatePost"); err != nil {
		return nil, err
	}
	if err := models.ValidateStruct(post); err != nil {
		return nil, err
	}
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	m.posts[post.ID] = clonePost(post)
	return clonePost(post), nil
}

func (m *MemStore) ListPosts(ctx context.Context) ([]*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("ListPosts"); err != nil {
		return nil, err
	}
	posts := make([]*models.Post, 0, len(m.posts))
	for _, p := range m.posts {
		posts = append(posts, clonePost(p))
	}
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].Date.After(posts[j].Date) })
	return posts, nil
}

func (m *MemStore) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("GetPostByID"); err != nil {
		return nil, err
	}
	p, ok := m.posts[id]
	if !ok {
		return nil, models.NewNotFoundError("Post not found")
	}
	return clonePost(p), nil
}

func (m *MemStore) SavePost(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("SavePost"); err != nil {
		return err
	}
	if _, ok := m.posts[post.ID]; !ok {
		return models.NewNotFoundError("Post not found")
	}
	m.posts[post.ID] = clonePost(post)
	return nil
}

func (m *MemStore) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeletePost"); err != nil {
		return err
	}
	if _, ok := m.posts[id]; !ok {
		return models.NewNotFoundError("Post not found")
	}
	delete(m.posts, id)
	return nil
}

func (m *MemStore) DeletePostsByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail("DeletePostsByUser"); err != nil {
		return 0, err
	}
	var n int64
	for id, p := range m.posts {
		if p.User == userID {
			delete(m.posts, id)
			n++
		}
	}
	return n, nil
}
