package chatbot

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed knowledge.yml
var defaultKnowledge []byte

type KnowledgeBase struct {
	Company struct {
		Name         string `yaml:"name"`
		Tagline      string `yaml:"tagline"`
		Mission      string `yaml:"mission"`
		Vision       string `yaml:"vision"`
		Founded      string `yaml:"founded"`
		Headquarters string `yaml:"headquarters"`
		Website      string `yaml:"website"`
		Email        string `yaml:"email"`
	} `yaml:"company"`
	Services []struct {
		Name         string   `yaml:"name"`
		Description  string   `yaml:"description"`
		Technologies []string `yaml:"technologies"`
	} `yaml:"services"`
	Departments []struct {
		Name        string   `yaml:"name"`
		Description string   `yaml:"description"`
		Teams       []string `yaml:"teams"`
	} `yaml:"departments"`
	Leadership []struct {
		Name  string `yaml:"name"`
		Title string `yaml:"title"`
	} `yaml:"leadership"`
	Benefits []struct {
		Category string   `yaml:"category"`
		Items    []string `yaml:"items"`
	} `yaml:"benefits"`
	Culture struct {
		Values               []string `yaml:"values"`
		Environment          string   `yaml:"environment"`
		SocialResponsibility string   `yaml:"social_responsibility"`
	} `yaml:"culture"`
	Onboarding struct {
		Duration string `yaml:"duration"`
		Phases   []struct {
			Name  string   `yaml:"name"`
			Steps []string `yaml:"steps"`
		} `yaml:"phases"`
	} `yaml:"onboarding"`
	FAQs []struct {
		Question string `yaml:"question"`
		Answer   string `yaml:"answer"`
	} `yaml:"faqs"`
	Offices []struct {
		Location string `yaml:"location"`
		Address  string `yaml:"address"`
	} `yaml:"offices"`
	Contacts []struct {
		Team  string `yaml:"team"`
		Email string `yaml:"email"`
		Note  string `yaml:"note"`
	} `yaml:"contacts"`
	Announcements []struct {
		Date    string `yaml:"date"`
		Title   string `yaml:"title"`
		Message string `yaml:"message"`
	} `yaml:"announcements"`
}

// LoadKnowledgeBase reads path when set, otherwise the embedded default.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	data := defaultKnowledge
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read knowledge base: %w", err)
		}
	}

	var kb KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge base: %w", err)
	}
	if kb.Company.Name == "" {
		return nil, fmt.Errorf("knowledge base is missing company.name")
	}
	return &kb, nil
}

// Render flattens the knowledge base into prompt text.
func (kb *KnowledgeBase) Render() string {
	var b strings.Builder
	c := kb.Company

	fmt.Fprintf(&b, "%s - %s\n", c.Name, c.Tagline)
	fmt.Fprintf(&b, "Mission: %s\nVision: %s\n", c.Mission, c.Vision)
	fmt.Fprintf(&b, "Founded: %s. Headquarters: %s. Website: %s. Contact: %s\n", c.Founded, c.Headquarters, c.Website, c.Email)

	b.WriteString("\nServices:\n")
	for _, s := range kb.Services {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", s.Name, s.Description, strings.Join(s.Technologies, ", "))
	}

	b.WriteString("\nDepartments:\n")
	for _, d := range kb.Departments {
		fmt.Fprintf(&b, "- %s: %s. Teams: %s\n", d.Name, d.Description, strings.Join(d.Teams, ", "))
	}

	b.WriteString("\nLeadership:\n")
	for _, l := range kb.Leadership {
		fmt.Fprintf(&b, "- %s, %s\n", l.Name, l.Title)
	}

	b.WriteString("\nBenefits:\n")
	for _, group := range kb.Benefits {
		fmt.Fprintf(&b, "- %s: %s\n", group.Category, strings.Join(group.Items, "; "))
	}

	b.WriteString("\nCulture:\n")
	for _, v := range kb.Culture.Values {
		fmt.Fprintf(&b, "- %s\n", v)
	}
	if kb.Culture.Environment != "" {
		fmt.Fprintf(&b, "%s\n", kb.Culture.Environment)
	}
	if kb.Culture.SocialResponsibility != "" {
		fmt.Fprintf(&b, "%s\n", kb.Culture.SocialResponsibility)
	}

	fmt.Fprintf(&b, "\nOnboarding program (%s):\n", kb.Onboarding.Duration)
	for _, p := range kb.Onboarding.Phases {
		fmt.Fprintf(&b, "- %s: %s\n", p.Name, strings.Join(p.Steps, "; "))
	}

	b.WriteString("\nFrequently asked questions:\n")
	for _, f := range kb.FAQs {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", f.Question, f.Answer)
	}

	b.WriteString("\nOffices:\n")
	for _, o := range kb.Offices {
		fmt.Fprintf(&b, "- %s: %s\n", o.Location, o.Address)
	}

	b.WriteString("\nContacts:\n")
	for _, ct := range kb.Contacts {
		fmt.Fprintf(&b, "- %s: %s (%s)\n", ct.Team, ct.Email, ct.Note)
	}

	if len(kb.Announcements) > 0 {
		b.WriteString("\nAnnouncements:\n")
		for _, a := range kb.Announcements {
			fmt.Fprintf(&b, "- %s %s: %s\n", a.Date, a.Title, a.Message)
		}
	}

	return b.String()
}
