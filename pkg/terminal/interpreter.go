package terminal

import (
	"fmt"
	"path"
	"strings"

	"github.com/josz009/folio/pkg/content"
)

// Prompt prefixes every echoed command.
const Prompt = "jose@portfolio:~$ "

// Result is the reply to one submitted line.
type Result struct {
	Input  string   `json:"input"`
	Echo   string   `json:"echo"`
	Lines  []string `json:"lines"`
	Effect Effect   `json:"-"`
	Found  bool     `json:"found"`
}

// command returns output lines and an effect.
type command func() ([]string, Effect)

// Interpreter executes commands against a content catalog. It holds no
// mutable state and is safe for concurrent use.
type Interpreter struct {
	catalog  *content.Catalog
	commands map[string]command
}

// New creates an interpreter whose output is drawn from c.
func New(c *content.Catalog) *Interpreter {
	in := &Interpreter{catalog: c}
	in.commands = map[string]command{
		"help":        in.help,
		"contact":     in.contact,
		"email":       in.email,
		"linkedin":    in.linkedin,
		"github":      in.github,
		"resume":      in.resume,
		"skills":      in.skills,
		"projects":    in.projects,
		"clear":       in.clear,
		"cd projects": in.cdProjects,
	}
	return in
}

// Commands lists the recognized commands in help order.
func Commands() []string {
	return []string{"help", "contact", "email", "linkedin", "github", "resume", "skills", "projects", "clear", "cd projects"}
}

// Execute runs one line of input. Blank input yields a zero Result with
// no echo, no output and no effect.
func (in *Interpreter) Execute(input string) Result {
	key := strings.ToLower(strings.TrimSpace(input))
	if key == "" {
		return Result{Effect: None{}}
	}

	res := Result{Input: input, Echo: Prompt + input}
	cmd, ok := in.commands[key]
	if !ok {
		res.Lines = []string{
			"Command not found: " + input,
			`Type "help" for available commands.`,
			"",
		}
		res.Effect = None{}
		return res
	}

	res.Found = true
	res.Lines, res.Effect = cmd()
	if res.Effect == nil {
		res.Effect = None{}
	}
	return res
}

func (in *Interpreter) help() ([]string, Effect) {
	return []string{
		"Available commands:",
		"  contact    - View contact information",
		"  email      - Send me an email",
		"  linkedin   - Open LinkedIn profile",
		"  github     - Open GitHub profile",
		"  resume     - Download resume",
		"  skills     - List technical skills",
		"  projects   - View featured projects",
		"  clear      - Clear terminal",
		"",
	}, nil
}

func (in *Interpreter) contact() ([]string, Effect) {
	p := in.catalog.Profile
	return []string{
		"Contact Information:",
		"  Name:     " + p.Name,
		"  Email:    " + p.Email,
		"  Phone:    " + p.Phone,
		"  Location: " + p.Location,
		"",
	}, nil
}

func (in *Interpreter) email() ([]string, Effect) {
	return []string{"Opening email client...", ""}, OpenLink{URL: "mailto:" + in.catalog.Profile.Email}
}

func (in *Interpreter) linkedin() ([]string, Effect) {
	return []string{"Opening LinkedIn profile...", ""}, OpenLink{URL: in.catalog.Profile.LinkedIn}
}

func (in *Interpreter) github() ([]string, Effect) {
	return []string{"Opening GitHub profile...", ""}, OpenLink{URL: in.catalog.Profile.GitHub}
}

func (in *Interpreter) resume() ([]string, Effect) {
	url := in.catalog.Profile.Resume
	return []string{"Opening resume in new tab...", "Resume download started...", ""},
		Download{URL: url, Filename: path.Base(url), Open: true}
}

func (in *Interpreter) skills() ([]string, Effect) {
	lines := []string{"Technical Skills:"}
	for _, g := range in.catalog.Terminal.Skills {
		lines = append(lines, fmt.Sprintf("  %-14s%s", g.Group+":", strings.Join(g.Items, ", ")))
	}
	return append(lines, ""), nil
}

func (in *Interpreter) projects() ([]string, Effect) {
	lines := []string{"Featured Projects:"}
	for i, p := range in.catalog.Terminal.Projects {
		lines = append(lines, fmt.Sprintf("  %d. %s (%s)", i+1, p.Name, p.Focus))
	}
	return append(lines, "", `Type "cd projects" to navigate to projects section`, ""), nil
}

func (in *Interpreter) clear() ([]string, Effect) {
	return nil, Clear{}
}

func (in *Interpreter) cdProjects() ([]string, Effect) {
	return []string{"Navigating to projects section...", ""}, ScrollTo{Section: "projects"}
}
