// Package skills validates skill manifests: a SKILL.md file whose frontmatter
// holds exactly a hyphen-case name and a short description.
package skills
