// Package report assembles the machine-readable audit report.
//
// The JSON layout is stable: maps are keyed by name and every list is sorted,
// so two runs over the same build produce identical output.
package report

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/supplychain/pkg/provenance"
	"github.com/matzehuels/supplychain/pkg/publishers"
)

// Report is the structured result of an audit.
type Report struct {
	Project        string                   `json:"project,omitempty"`
	UserPublishers map[string]PublisherInfo `json:"user_publishers"`
	TeamPublishers map[string]PublisherInfo `json:"team_publishers"`
	NotAudited     NotAudited               `json:"not_audited"`
	CratesIOCrates map[string][]string      `json:"crates_io_crates"`
	Failed         []string                 `json:"failed,omitempty"`
}

// PublisherInfo describes one publisher and the crates it can publish.
type PublisherInfo struct {
	Login  string   `json:"login"`
	Kind   string   `json:"kind"`
	Name   string   `json:"name,omitempty"`
	URL    string   `json:"url,omitempty"`
	Crates []string `json:"crates"`
}

// NotAudited lists crates whose publishers cannot be checked.
type NotAudited struct {
	LocalCrates   []string `json:"local_crates"`
	ForeignCrates []string `json:"foreign_crates"`
}

// NotAuditedCrates returns the local and foreign crate names in pkgs.
func NotAuditedCrates(pkgs []provenance.SourcedPackage) NotAudited {
	return NotAudited{
		LocalCrates:   orEmpty(provenance.Names(pkgs, provenance.Local)),
		ForeignCrates: orEmpty(provenance.Names(pkgs, provenance.Foreign)),
	}
}

// Build combines the classified packages and their ownership into a report.
// own may be nil when no lookups were made.
func Build(pkgs []provenance.SourcedPackage, own *publishers.Ownership) *Report {
	r := &Report{
		UserPublishers: map[string]PublisherInfo{},
		TeamPublishers: map[string]PublisherInfo{},
		NotAudited:     NotAuditedCrates(pkgs),
		CratesIOCrates: map[string][]string{},
	}
	if own == nil {
		return r
	}

	for _, c := range own.Crates() {
		logins := make([]string, len(c.Publishers))
		for i, p := range c.Publishers {
			logins[i] = p.Login
		}
		r.CratesIOCrates[c.Crate] = logins
	}
	for _, pc := range own.Publishers(publishers.User) {
		r.UserPublishers[pc.Publisher.Login] = info(pc)
	}
	for _, pc := range own.Publishers(publishers.Team) {
		r.TeamPublishers[pc.Publisher.Login] = info(pc)
	}
	r.Failed = own.Failed
	return r
}

func info(pc publishers.PublisherCrates) PublisherInfo {
	return PublisherInfo{
		Login:  pc.Publisher.Login,
		Kind:   pc.Publisher.Kind.String(),
		Name:   pc.Publisher.Name,
		URL:    pc.Publisher.URL,
		Crates: pc.Crates,
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
