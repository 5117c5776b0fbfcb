package checks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/presubmit/pkg/types"
)

// licenseHeaderWindow is how many leading lines may hold the license header
const licenseHeaderWindow = 5

// EOL flags carriage returns and files not ending in exactly one newline
func EOL() Check {
	return Check{
		ID:          IDEOL,
		Description: "no carriage returns; files end with exactly one newline",
		Kind:        KindWholeFile,
		Run: func(_ context.Context, rc *types.RunContext) ([]types.Finding, error) {
			var findings []types.Finding
			for _, f := range rc.Files {
				if f.Binary {
					continue
				}
				findings = append(findings, eolFindings(f)...)
			}
			return findings, nil
		},
	}
}

func eolFindings(f *types.ChangedFile) []types.Finding {
	var findings []types.Finding
	content := f.Content()

	for i, line := range f.Lines() {
		if strings.ContainsRune(line, '\r') {
			findings = append(findings, types.Finding{
				Check:    IDEOL,
				Path:     f.Path,
				Line:     i + 1,
				Severity: types.SeverityError,
				Message:  "Found a carriage return (\\r); use Unix line endings",
			})
			break
		}
	}

	if len(content) == 0 {
		return findings
	}
	if !bytes.HasSuffix(content, []byte("\n")) || bytes.HasSuffix(content, []byte("\n\n")) {
		findings = append(findings, types.Finding{
			Check:    IDEOL,
			Path:     f.Path,
			Severity: types.SeverityError,
			Message:  "File must end with exactly one newline",
		})
	}
	return findings
}

// LicenseHeader requires header text near the top of source and build files
func LicenseHeader(header string) Check {
	return Check{
		ID:          IDLicenseHeader,
		Description: "source and build files carry the license header",
		Kind:        KindWholeFile,
		Run: func(_ context.Context, rc *types.RunContext) ([]types.Finding, error) {
			if header == "" {
				return nil, nil
			}
			var findings []types.Finding
			for _, f := range rc.FilesWhere(needsLicense) {
				if len(f.Lines()) == 0 || hasHeader(f, header) {
					continue
				}
				findings = append(findings, types.Finding{
					Check:    IDLicenseHeader,
					Path:     f.Path,
					Severity: types.SeverityError,
					Message:  fmt.Sprintf("License header %q not found in the first %d lines", header, licenseHeaderWindow),
				})
			}
			return findings, nil
		},
	}
}

func needsLicense(f *types.ChangedFile) bool {
	if f.Binary {
		return false
	}
	return f.IsCpp() || f.Kind == types.FileKindBuild || path.Ext(f.Path) == ".py"
}

func hasHeader(f *types.ChangedFile, header string) bool {
	lines := f.Lines()
	if len(lines) > licenseHeaderWindow {
		lines = lines[:licenseHeaderWindow]
	}
	for _, l := range lines {
		if strings.Contains(l, header) {
			return true
		}
	}
	return false
}

// ThirdPartyLicenses requires every touched third-party directory to ship
// a license file. The finding is attached to the first changed file of the
// directory.
func ThirdPartyLicenses(dir string) Check {
	dir = strings.Trim(filepath.ToSlash(dir), "/")
	return Check{
		ID:          IDThirdPartyLicenses,
		Description: "touched third-party directories contain a license file",
		Kind:        KindWholeFile,
		Run: func(_ context.Context, rc *types.RunContext) ([]types.Finding, error) {
			var findings []types.Finding
			seen := make(map[string]bool)
			for _, f := range rc.Files {
				pkg, ok := thirdPartyPackage(dir, f.Path)
				if !ok || seen[pkg] {
					continue
				}
				seen[pkg] = true

				has, err := hasLicenseFile(filepath.Join(rc.Root, filepath.FromSlash(pkg)))
				if err != nil {
					return findings, err
				}
				if !has {
					findings = append(findings, types.Finding{
						Check:    IDThirdPartyLicenses,
						Path:     f.Path,
						Severity: types.SeverityError,
						Message:  fmt.Sprintf("%s has no LICENSE or COPYING file", pkg),
					})
				}
			}
			return findings, nil
		},
	}
}

// thirdPartyPackage returns dir/<name> for paths below it
func thirdPartyPackage(dir, p string) (string, bool) {
	rest, ok := strings.CutPrefix(p, dir+"/")
	if !ok {
		return "", false
	}
	name, _, nested := strings.Cut(rest, "/")
	if !nested {
		return "", false
	}
	return dir + "/" + name, true
}

func hasLicenseFile(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	for _, e := range entries {
		name := strings.ToUpper(e.Name())
		if !e.IsDir() && (strings.HasPrefix(name, "LICENSE") || strings.HasPrefix(name, "COPYING")) {
			return true, nil
		}
	}
	return false, nil
}
