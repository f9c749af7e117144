package main

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultContentYAML []byte

// Content is the page record shown in the window panels.
type Content struct {
	Name       string             `yaml:"name"`
	Tagline    string             `yaml:"tagline"`
	About      About              `yaml:"about" validate:"required"`
	Experience []Experience       `yaml:"experience" validate:"required,min=1"`
	Projects   []Project          `yaml:"projects" validate:"required,min=1"`
	Skills     map[string][]Skill `yaml:"skills" validate:"required,min=1"`
	Contact    Contact            `yaml:"contact" validate:"required"`
}

type About struct {
	Description    string `yaml:"description"`
	Education      string `yaml:"education"`
	Location       string `yaml:"location"`
	Specialization string `yaml:"specialization"`
}

type Experience struct {
	Position    string `yaml:"position"`
	Company     string `yaml:"company"`
	Period      string `yaml:"period"`
	Description string `yaml:"description"`
}

type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Icon        string   `yaml:"icon"`
	Tags        []string `yaml:"tags"`
}

// Skill level runs from 1 to 5.
type Skill struct {
	Name  string `yaml:"name"`
	Level int    `yaml:"level"`
}

type Contact struct {
	Email    string `yaml:"email"`
	LinkedIn string `yaml:"linkedin"`
	GitHub   string `yaml:"github"`
}

// Section is one panel's worth of content.
type Section struct {
	Heading string
	Body    string
}

// DefaultContent returns the embedded content record.
func DefaultContent() Content {
	var c Content
	if err := yaml.Unmarshal(defaultContentYAML, &c); err != nil {
		panic(fmt.Sprintf("embedded content.yaml: %v", err))
	}
	return c
}

// parseContent decodes a content record.
func parseContent(data []byte) (Content, error) {
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Content{}, errors.Wrap(err, "decode content")
	}
	return c, nil
}

// missingSections lists the top-level sections c leaves empty.
func missingSections(c Content) []string {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, strings.ToLower(fe.Field()))
	}
	return missing
}

// LoadContent reads the content record at path. An empty path, or a file that
// cannot be read or decoded, yields the embedded record; missing sections are
// logged but kept.
func LoadContent(path string, log *zap.Logger) Content {
	if path == "" {
		return DefaultContent()
	}
	data, err := os.ReadFile(path)
	if err == nil {
		var c Content
		if c, err = parseContent(data); err == nil {
			for _, section := range missingSections(c) {
				log.Warn("content section missing", zap.String("file", path), zap.String("section", section))
			}
			return c
		}
	}
	log.Warn("using default content", zap.String("file", path), zap.Error(err))
	return DefaultContent()
}

// Hero returns the line typed out in the first panel.
func (c Content) Hero() string {
	switch {
	case c.Name != "" && c.Tagline != "":
		return c.Name + ", " + c.Tagline
	case c.Name != "":
		return c.Name
	default:
		return c.Tagline
	}
}

// Sections flattens the record into page panels, in page order. Empty
// sections are skipped.
func (c Content) Sections() []Section {
	var out []Section
	if a := c.About; a.Description != "" {
		var b strings.Builder
		b.WriteString(a.Description)
		for _, line := range [][2]string{
			{"Education", a.Education},
			{"Location", a.Location},
			{"Focus", a.Specialization},
		} {
			if line[1] != "" {
				fmt.Fprintf(&b, "\n%s: %s", line[0], line[1])
			}
		}
		out = append(out, Section{Heading: "About", Body: b.String()})
	}
	for _, e := range c.Experience {
		out = append(out, Section{
			Heading: e.Position,
			Body:    fmt.Sprintf("%s, %s\n%s", e.Company, e.Period, e.Description),
		})
	}
	for _, p := range c.Projects {
		body := p.Description
		if len(p.Tags) > 0 {
			body += "\n[" + strings.Join(p.Tags, "] [") + "]"
		}
		out = append(out, Section{Heading: p.Title, Body: body})
	}
	for _, group := range slices.Sorted(maps.Keys(c.Skills)) {
		var lines []string
		for _, s := range c.Skills[group] {
			lines = append(lines, s.Name+" "+skillBar(s.Level))
		}
		if len(lines) > 0 {
			out = append(out, Section{Heading: "Skills: " + group, Body: strings.Join(lines, "\n")})
		}
	}
	var contact []string
	for _, line := range [][2]string{
		{"Email", c.Contact.Email},
		{"LinkedIn", c.Contact.LinkedIn},
		{"GitHub", c.Contact.GitHub},
	} {
		if line[1] != "" {
			contact = append(contact, line[0]+": "+line[1])
		}
	}
	if len(contact) > 0 {
		out = append(out, Section{Heading: "Contact", Body: strings.Join(contact, "\n")})
	}
	return out
}

func skillBar(level int) string {
	level = min(max(level, 0), 5)
	return strings.Repeat("#", level) + strings.Repeat(".", 5-level)
}
