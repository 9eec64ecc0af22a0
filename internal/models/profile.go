package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Social struct {
	Youtube   string `bson:"youtube,omitempty" json:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty" json:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty" json:"facebook,omitempty"`
	Linkedin  string `bson:"linkedin,omitempty" json:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty" json:"instagram,omitempty"`
}

type Experience struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Company     string             `bson:"company" json:"company"`
	Location    string             `bson:"location,omitempty" json:"location,omitempty"`
	From        time.Time          `bson:"from" json:"from"`
	To          *time.Time         `bson:"to,omitempty" json:"to,omitempty"`
	Current     bool               `bson:"current" json:"current"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

type Education struct {
	ID           primitive.ObjectID `bson:"_id" json:"_id"`
	School       string             `bson:"school" json:"school"`
	Degree       string             `bson:"degree" json:"degree"`
	FieldOfStudy string             `bson:"fieldofstudy" json:"fieldofstudy"`
	From         time.Time          `bson:"from" json:"from"`
	To           *time.Time         `bson:"to,omitempty" json:"to,omitempty"`
	Current      bool               `bson:"current" json:"current"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
}

// Profile is the aggregate root for a user's public developer profile.
// Experience and Education are embedded and owned by it.
type Profile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User           primitive.ObjectID `bson:"user" json:"user"`
	Company        string             `bson:"company,omitempty" json:"company,omitempty"`
	Website        string             `bson:"website,omitempty" json:"website,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`
	Status         string             `bson:"status" json:"status"`
	Skills         []string           `bson:"skills" json:"skills"`
	Bio            string             `bson:"bio,omitempty" json:"bio,omitempty"`
	GithubUsername string             `bson:"githubusername,omitempty" json:"githubusername,omitempty"`
	Social         Social             `bson:"social" json:"social"`
	Experience     []Experience       `bson:"experience" json:"experience"`
	Education      []Education        `bson:"education" json:"education"`
	Date           time.Time          `bson:"date" json:"date"`
}

// ProfileView is a profile with its owner's name and avatar joined in.
type ProfileView struct {
	Profile `bson:",inline"`
	User    *UserSummary `bson:"owner,omitempty" json:"user"`
}

// ProfileFields carries the editable profile fields. Empty strings are
// treated as absent and never overwrite stored values.
type ProfileFields struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" binding:"required"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills" binding:"required"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// SplitSkills turns "go, rust" into ["go", "rust"].
func SplitSkills(skills string) []string {
	parts := strings.Split(skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// SetDocument returns the $set document for the present fields, using dotted
// paths for social links so one link never clears the others.
func (f ProfileFields) SetDocument() bson.M {
	set := bson.M{}
	put := func(key, value string) {
		if value != "" {
			set[key] = value
		}
	}
	put("company", f.Company)
	put("website", f.Website)
	put("location", f.Location)
	put("bio", f.Bio)
	put("status", f.Status)
	put("githubusername", f.GithubUsername)
	if f.Skills != "" {
		set["skills"] = SplitSkills(f.Skills)
	}
	put("social.youtube", f.Youtube)
	put("social.twitter", f.Twitter)
	put("social.facebook", f.Facebook)
	put("social.linkedin", f.Linkedin)
	put("social.instagram", f.Instagram)
	return set
}

// InsertDocument returns the $setOnInsert document for a new profile owned
// by userID. Skills default to an empty list unless $set carries them, since
// MongoDB refuses to touch one path from both operators.
func (f ProfileFields) InsertDocument(userID primitive.ObjectID, now time.Time) bson.M {
	doc := bson.M{
		"user":       userID,
		"experience": bson.A{},
		"education":  bson.A{},
		"date":       now,
	}
	if f.Skills == "" {
		doc["skills"] = bson.A{}
	}
	return doc
}

func (p *Profile) experienceIndex(id primitive.ObjectID) int {
	for i := range p.Experience {
		if p.Experience[i].ID == id {
			return i
		}
	}
	return -1
}

func (p *Profile) educationIndex(id primitive.ObjectID) int {
	for i := range p.Education {
		if p.Education[i].ID == id {
			return i
		}
	}
	return -1
}

// AddExperience checks the date range and puts exp at the head of the list.
func (p *Profile) AddExperience(exp Experience) (Experience, error) {
	if exp.To != nil && exp.From.After(*exp.To) {
		return Experience{}, NewValidationError("From or to Date is incorrect")
	}
	exp.ID = primitive.NewObjectID()
	p.Experience = append([]Experience{exp}, p.Experience...)
	return exp, nil
}

// UpdateExperience replaces the entry with the given id in place. The entry
// keeps its id.
func (p *Profile) UpdateExperience(id primitive.ObjectID, exp Experience) error {
	i := p.experienceIndex(id)
	if i < 0 {
		return NewNotFoundError("Experience not found")
	}
	exp.ID = id
	p.Experience[i] = exp
	return nil
}

func (p *Profile) RemoveExperience(id primitive.ObjectID) error {
	i := p.experienceIndex(id)
	if i < 0 {
		return NewNotFoundError("Experience not found")
	}
	p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
	return nil
}

// AddEducation puts edu at the head of the list. Unlike experience there is
// no date range check.
func (p *Profile) AddEducation(edu Education) Education {
	edu.ID = primitive.NewObjectID()
	p.Education = append([]Education{edu}, p.Education...)
	return edu
}

func (p *Profile) UpdateEducation(id primitive.ObjectID, edu Education) error {
	i := p.educationIndex(id)
	if i < 0 {
		return NewNotFoundError("Education not found")
	}
	edu.ID = id
	p.Education[i] = edu
	return nil
}

func (p *Profile) RemoveEducation(id primitive.ObjectID) error {
	i := p.educationIndex(id)
	if i < 0 {
		return NewNotFoundError("Education not found")
	}
	p.Education = append(p.Education[:i], p.Education[i+1:]...)
	return nil
}
