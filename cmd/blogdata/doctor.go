package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kitops-ml/blogdata/internal/config"
	"github.com/kitops-ml/blogdata/internal/domain"
	"github.com/kitops-ml/blogdata/internal/manifest"
	"github.com/kitops-ml/blogdata/internal/utils"
	"github.com/spf13/cobra"
)

func (c *cli) newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, manifest and cache location",
		Long:  "Verifies that the configuration loads, the manifest parses and the cache file can be written.",
		Args:  cobra.NoArgs,
		RunE:  c.runDoctor,
	}
}

func (c *cli) runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Checking setup...")
	allPassed := true

	// Check 1: Config
	fmt.Fprint(out, "  Config: ")
	cfg, err := c.loadConfig()
	if err != nil {
		fmt.Fprintf(out, "FAILED (%v)\n", err)
		return errors.New("some checks failed")
	}
	if used := c.v.ConfigFileUsed(); used != "" {
		fmt.Fprintf(out, "OK (%s)\n", used)
	} else {
		fmt.Fprintf(out, "OK (defaults, %s not found)\n", config.ConfigFilePath())
	}

	// Check 2: Manifest
	fmt.Fprint(out, "  Manifest: ")
	posts, err := manifest.NewLoader().Load(utils.ExpandPath(cfg.Manifest.Path))
	if err != nil {
		fmt.Fprintf(out, "FAILED (%v)\n", err)
		allPassed = false
	} else {
		fmt.Fprintf(out, "OK (%d posts)\n", len(posts))
		for _, problem := range manifestProblems(posts) {
			fmt.Fprintf(out, "    WARN %s\n", problem)
		}
	}

	// Check 3: Cache file location
	fmt.Fprint(out, "  Cache file: ")
	cachePath := utils.ExpandPath(cfg.Cache.Path)
	if checkWritable(filepath.Dir(cachePath)) {
		fmt.Fprintf(out, "OK (%s)\n", cachePath)
	} else {
		fmt.Fprintf(out, "FAILED (cannot write to %s)\n", filepath.Dir(cachePath))
		allPassed = false
	}

	// Check 4: Page cache directory
	if cfg.Pages.Enabled {
		fmt.Fprint(out, "  Page cache: ")
		pagesDir := utils.ExpandPath(cfg.Pages.Directory)
		if checkWritable(pagesDir) {
			fmt.Fprintf(out, "OK (%s)\n", pagesDir)
		} else {
			fmt.Fprintf(out, "FAILED (cannot write to %s)\n", pagesDir)
			allPassed = false
		}
	}

	fmt.Fprintln(out)
	if !allPassed {
		fmt.Fprintln(out, "Some checks failed. Please resolve the issues above.")
		return errors.New("some checks failed")
	}
	fmt.Fprintln(out, "All checks passed!")
	return nil
}

// manifestProblems lists entries that a build would skip without fetching
func manifestProblems(posts []domain.PostDescriptor) []string {
	var problems []string
	seen := make(map[string]int, len(posts))
	for i, p := range posts {
		switch {
		case p.URL == "":
			problems = append(problems, fmt.Sprintf("entry %d: %v", i+1, domain.ErrEmptyURL))
		case seen[p.URL] > 0:
			problems = append(problems, fmt.Sprintf("entry %d: %v (first listed as entry %d)", i+1, domain.ErrDuplicateURL, seen[p.URL]))
		case !utils.IsHTTPURL(p.URL):
			problems = append(problems, fmt.Sprintf("entry %d: %v: %s", i+1, domain.ErrInvalidURL, p.URL))
		}
		if p.URL != "" && seen[p.URL] == 0 {
			seen[p.URL] = i + 1
		}
	}
	return problems
}

// checkWritable reports whether files can be created in dir, creating it
// when missing
func checkWritable(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false
	}
	f, err := os.CreateTemp(dir, ".blogdata_write_*")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
