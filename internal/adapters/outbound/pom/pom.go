// Package pom extracts the handful of keys stratify needs from Maven
// descriptors. It is deliberately not an XML parser: values are pulled by
// pattern, which is sufficient for the coordinates, packaging and module
// list of well-formed descriptors.
package pom

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Packaging kinds stratify distinguishes.
const (
	PackagingAggregator = "pom"
	PackagingJar        = "jar"
)

// Descriptor holds the extracted keys of one pom.xml.
type Descriptor struct {
	GroupID    string
	ArtifactID string
	Version    string
	Packaging  string

	ParentGroupID    string
	ParentArtifactID string
	ParentVersion    string

	Modules []string
}

var (
	parentBlockRe  = regexp.MustCompile(`(?s)<parent>.*?</parent>`)
	modulesBlockRe = regexp.MustCompile(`(?s)<modules>.*?</modules>`)
	moduleRe       = regexp.MustCompile(`<module>\s*([^<]+?)\s*</module>`)
)

// Read extracts descriptor keys from the file at path.
func Read(path string) (Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, fmt.Errorf("reading descriptor: %w", err)
	}
	return Parse(string(data)), nil
}

// Parse extracts descriptor keys from descriptor text.
func Parse(text string) Descriptor {
	var d Descriptor

	if parent := parentBlockRe.FindString(text); parent != "" {
		d.ParentGroupID = key(parent, "groupId")
		d.ParentArtifactID = key(parent, "artifactId")
		d.ParentVersion = key(parent, "version")
		text = parentBlockRe.ReplaceAllString(text, "")
	}

	d.GroupID = key(text, "groupId")
	d.ArtifactID = key(text, "artifactId")
	d.Version = key(text, "version")
	d.Packaging = key(text, "packaging")
	if d.Packaging == "" {
		d.Packaging = PackagingJar // Maven default
	}

	// Coordinates may be inherited from the parent.
	if d.GroupID == "" {
		d.GroupID = d.ParentGroupID
	}
	if d.Version == "" {
		d.Version = d.ParentVersion
	}

	for _, m := range moduleRe.FindAllStringSubmatch(text, -1) {
		d.Modules = append(d.Modules, m[1])
	}
	return d
}

// HasModule reports whether the module list already names the module.
func (d Descriptor) HasModule(name string) bool {
	for _, m := range d.Modules {
		if m == name {
			return true
		}
	}
	return false
}

// key pulls the first occurrence of <name>value</name> from text.
func key(text, name string) string {
	re := regexp.MustCompile(`<` + name + `>\s*([^<]+?)\s*</` + name + `>`)
	if m := re.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// WithModule returns the descriptor text with the module appended to the
// module list, creating the list if absent. Appending an already-listed
// module returns the text unchanged.
func WithModule(text, name string) string {
	if Parse(text).HasModule(name) {
		return text
	}

	entry := "<module>" + name + "</module>"
	if block := modulesBlockRe.FindString(text); block != "" {
		updated := strings.Replace(block, "</modules>", "    "+entry+"\n    </modules>", 1)
		return strings.Replace(text, block, updated, 1)
	}

	blockText := "    <modules>\n        " + entry + "\n    </modules>\n"
	if strings.Contains(text, "</project>") {
		return strings.Replace(text, "</project>", blockText+"</project>", 1)
	}
	return text + blockText
}

// AppendModule rewrites the descriptor at path with the module appended.
func AppendModule(path, name string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading descriptor: %w", err)
	}
	updated := WithModule(string(data), name)
	if updated == string(data) {
		return nil
	}
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return fmt.Errorf("writing descriptor: %w", err)
	}
	return nil
}
