package fastimport

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aolsson/ccm2git/internal/model"
)

// commitAuthor is the default author identity, used when a task or
// object carries no author of its own.
const commitAuthor = "nokia"

// CommitMessage renders a task's commit message: synopsis, blank line,
// description, blank line, then one "Synergy-<attr>: value" trailer per
// remaining scalar attribute (in sorted key order for determinism) and
// one "Synergy-insp-<key>: line" trailer per line of each scalar in a
// nested "inspection_task" attribute, also in sorted key order.
func CommitMessage(task *model.Task) string {
	var lines []string
	lines = append(lines, task.Synopsis())
	lines = append(lines, "")
	lines = append(lines, task.Description())
	lines = append(lines, "")

	var insp map[string]string
	keys := sortedAttrKeys(task.Attributes)
	for _, k := range keys {
		switch k {
		case "task_synopsis", "task_description", "status_log":
			continue
		}
		v := task.Attributes[k]
		if v.IsNested() {
			insp = v.Nested
			continue
		}
		if strings.TrimSpace(v.Scalar) == "" {
			continue
		}
		trailer := strings.ReplaceAll(k, "_", "-")
		value := strings.ReplaceAll(strings.TrimSpace(v.Scalar), "\n", " ")
		lines = append(lines, fmt.Sprintf("Synergy-%s: %s", trailer, value))
	}

	if insp != nil {
		inspKeys := make([]string, 0, len(insp))
		for k := range insp {
			inspKeys = append(inspKeys, k)
		}
		sort.Strings(inspKeys)
		for _, k := range inspKeys {
			if k == "status_log" {
				continue
			}
			v := insp[k]
			if strings.TrimSpace(v) == "" {
				continue
			}
			trailer := strings.NewReplacer("task_", "", "insp_", "", "_", "-").Replace(k)
			for _, line := range strings.Split(v, "\n") {
				lines = append(lines, fmt.Sprintf("Synergy-insp-%s: %s", trailer, strings.TrimSpace(line)))
			}
		}
	}

	return strings.Join(lines, "\n")
}

func sortedAttrKeys(attrs map[string]model.AttrValue) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FileList renders the "M"/"D" tree-entry lines for a commit: one "M
// 100644 :<mark> <path>" per file object (looked up in markLookup by
// object name) and one "D <path>/<child>" per deleted child of a
// directory object.
func FileList(objects []*model.FileObject, markLookup map[string]int) string {
	var lines []string
	for _, o := range objects {
		if o.Type == model.TypeDir {
			if o.DirChanges == nil {
				continue
			}
			for _, d := range o.DirChanges.Deleted {
				lines = append(lines, fmt.Sprintf("D %s/%s", o.Path, d))
			}
			continue
		}
		lines = append(lines, fmt.Sprintf("M 100644 :%d %s", markLookup[o.ObjectName], o.Path))
	}
	return strings.Join(lines, "\n")
}

// identity formats an author as a git "name <name@nokia.com>" identity,
// matching the source tool's synthesized email addresses.
func identity(author string) string {
	if author == "" {
		author = commitAuthor
	}
	return fmt.Sprintf("%s <%s@nokia.com>", author, author)
}
