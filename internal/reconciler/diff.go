package reconciler

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MessageTemplates are the text/template sources used to render change
// messages. Templates receive MessageData and may use sprig functions.
type MessageTemplates struct {
	Create string `yaml:"create,omitempty"`
	Update string `yaml:"update,omitempty"`
}

// DefaultMessageTemplates render "Adding {id}" and "Updating {id}".
var DefaultMessageTemplates = MessageTemplates{
	Create: "Adding {{ .ID }}",
	Update: "Updating {{ .ID }}",
}

// MessageData is the value change message templates are executed against.
type MessageData struct {
	ID     string
	Action string
}

// DiffEngine decides, for one document, whether the remote store needs a
// write and builds the write payload. It performs no I/O.
type DiffEngine struct {
	committer Committer
	create    *template.Template
	update    *template.Template
}

// NewDiffEngine creates a DiffEngine. Empty templates fall back to
// DefaultMessageTemplates.
func NewDiffEngine(committer Committer, templates MessageTemplates) (*DiffEngine, error) {
	if templates.Create == "" {
		templates.Create = DefaultMessageTemplates.Create
	}
	if templates.Update == "" {
		templates.Update = DefaultMessageTemplates.Update
	}

	create, err := parseMessageTemplate("create", templates.Create)
	if err != nil {
		return nil, err
	}
	update, err := parseMessageTemplate("update", templates.Update)
	if err != nil {
		return nil, err
	}

	return &DiffEngine{
		committer: committer,
		create:    create,
		update:    update,
	}, nil
}

func parseMessageTemplate(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid %s message template: %w", name, err)
	}
	return tmpl, nil
}

// Decide classifies the document against its remote version.
//
// An error is returned only when the remote content cannot be decoded or a
// message template fails to render; callers treat it as a remote read failure.
func (d *DiffEngine) Decide(doc DesiredDocument, remote RemoteFileInfo) (Decision, error) {
	if !remote.Exists() {
		message, err := d.render(d.create, doc.ID, ActionCreate)
		if err != nil {
			return Decision{}, err
		}
		return Decision{
			Action: ActionCreate,
			Payload: WritePayload{
				Content:   EncodeContent(doc.Content),
				Message:   message,
				Committer: d.committer,
			},
		}, nil
	}

	var existing string
	if remote.EncodedContent != nil {
		decoded, err := DecodeContent(*remote.EncodedContent)
		if err != nil {
			return Decision{}, fmt.Errorf("failed to decode remote content for %s: %w", doc.ID, err)
		}
		existing = decoded
	}

	if ContentEqual(doc.Content, existing) {
		return Decision{Action: ActionSkip}, nil
	}

	message, err := d.render(d.update, doc.ID, ActionUpdate)
	if err != nil {
		return Decision{}, err
	}
	return Decision{
		Action: ActionUpdate,
		Payload: WritePayload{
			Content:       EncodeContent(doc.Content),
			Message:       message,
			RevisionToken: *remote.RevisionToken,
			Committer:     d.committer,
		},
	}, nil
}

func (d *DiffEngine) render(tmpl *template.Template, id string, action Action) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, MessageData{ID: id, Action: action.String()}); err != nil {
		return "", fmt.Errorf("failed to render %s message for %s: %w", tmpl.Name(), id, err)
	}
	return buf.String(), nil
}

// ContentEqual compares two documents ignoring case. Both sides are NFC
// normalized and Unicode case folded before comparison.
func ContentEqual(a, b string) bool {
	if a == b {
		return true
	}
	fold := cases.Fold()
	return fold.String(norm.NFC.String(a)) == fold.String(norm.NFC.String(b))
}

// EncodeContent applies the store's transport encoding (standard base64 of UTF-8).
func EncodeContent(content string) string {
	return base64.StdEncoding.EncodeToString([]byte(content))
}

// DecodeContent reverses EncodeContent. GitHub wraps base64 content at 60
// columns, so line breaks are ignored.
func DecodeContent(encoded string) (string, error) {
	cleaned := strings.NewReplacer("\n", "", "\r", "").Replace(encoded)
	raw, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
