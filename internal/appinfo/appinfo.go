// Package appinfo exposes the product metadata embedded in version.json.
package appinfo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/muhammadmuzzammil1998/jsonc"

	"appscan-traffic-recorder/internal/constants"
)

//go:embed version.json
var versionJSON []byte

// Info is the product metadata.
type Info struct {
	Version     string `json:"version"`
	CompanyName string `json:"company_name"`
	ProductName string `json:"product_name"`
	Description string `json:"description"`
	Author      string `json:"author"`
	AuthorEmail string `json:"author_email"`
}

// Load parses the embedded metadata. A build-time constants.AppVersion wins
// over the embedded version.
func Load() (Info, error) {
	info, err := Parse(versionJSON)
	if err != nil {
		return Info{}, err
	}
	if constants.AppVersion != "" {
		info.Version = constants.AppVersion
	}
	return info, nil
}

// Parse decodes JSONC metadata: JSON with // and /* */ comments.
func Parse(data []byte) (Info, error) {
	var info Info
	if err := json.Unmarshal(jsonc.ToJSON(data), &info); err != nil {
		return Info{}, fmt.Errorf("failed to parse version.json: %w", err)
	}
	if info.ProductName == "" {
		return Info{}, fmt.Errorf("version.json: product_name is empty")
	}
	return info, nil
}

// ProjectName is the product name title-cased with spaces removed, used as
// the settings file name and section.
func (i Info) ProjectName() string {
	if i.ProductName == "" {
		return constants.ProjectName
	}
	var b strings.Builder
	for _, word := range strings.Fields(i.ProductName) {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

// Title is the main window title.
func (i Info) Title() string {
	return fmt.Sprintf("%s %s", i.ProductName, i.Version)
}

// AboutText is the body of the About dialog.
func (i Info) AboutText() string {
	return fmt.Sprintf("%s\n\n%s\n\nGitHub: %s\nAuthor: %s <%s>",
		i.ProductName, i.Description, constants.RepoURL, i.Author, i.AuthorEmail)
}
