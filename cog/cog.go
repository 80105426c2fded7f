// Package cog inspects the COG annotations within SICO clusters. Clusters
// whose members disagree on their functional group are dropped, clusters with
// a single agreed COG have it transferred to their unannotated members.
package cog

import (
	"log"
	"sort"
	"strings"

	"github.com/TGenNorth/orthofilter/sico"
	"github.com/pkg/errors"
)

var ErrTransferMismatch = errors.New("cog: annotation differs from the transferred COG")

type Class int

const (
	// Consistent clusters carry one COG on every member.
	Consistent Class = iota
	// Missing clusters have no annotated member.
	Missing
	// Transferable clusters agree on one COG but some members are unannotated.
	Transferable
	// Conflicted clusters carry two or more distinct COGs.
	Conflicted
)

func (c Class) String() string {
	switch c {
	case Consistent:
		return "consistent"
	case Missing:
		return "missing"
	case Transferable:
		return "transferable"
	case Conflicted:
		return "conflicted"
	}
	return "unknown"
}

// Classify returns the class of the cluster and its distinct COG annotations,
// sorted, excluding sico.Unassigned.
func Classify(c *sico.Cluster) (Class, []string) {
	seen := make(map[string]struct{})
	var cogs []string
	var unassigned bool

	for i := range c.Records {
		cog := c.Records[i].Header.COG
		if cog == sico.Unassigned {
			unassigned = true
			continue
		}
		if _, ok := seen[cog]; ok {
			continue
		}
		seen[cog] = struct{}{}
		cogs = append(cogs, cog)
	}
	sort.Strings(cogs)

	switch {
	case len(cogs) == 0:
		return Missing, cogs
	case len(cogs) > 1:
		return Conflicted, cogs
	case unassigned:
		return Transferable, cogs
	}
	return Consistent, cogs
}

// Transfer assigns cog to every unannotated member of the cluster. Members
// already annotated must carry cog.
func Transfer(c *sico.Cluster, cog string) error {
	for i := range c.Records {
		header := &c.Records[i].Header
		switch header.COG {
		case sico.Unassigned:
			header.COG = cog
		case cog:
		default:
			return errors.Wrapf(ErrTransferMismatch, "%s: expected %s or %s, found %s", c.Name, cog, sico.Unassigned, header.COG)
		}
	}
	return nil
}

// Resolution partitions a set of clusters by their COG annotations.
type Resolution struct {
	// Kept lists every cluster that was not conflicted, in input order.
	Kept []*sico.Cluster
	// Conflicts maps a conflicted cluster name to its distinct COGs.
	Conflicts map[string][]string
	// Transferred maps a rewritten cluster name to the COG it received.
	Transferred map[string]string
	// Missing lists the names of clusters without any COG.
	Missing []string

	rewritten []*sico.Cluster
}

// Resolve classifies each cluster, drops the conflicted ones and transfers the
// agreed COG within transferable ones. Transferable clusters are modified in
// memory; Rewritten returns them so the caller can persist the change.
func Resolve(clusters []*sico.Cluster) (*Resolution, error) {
	r := &Resolution{
		Conflicts:   make(map[string][]string),
		Transferred: make(map[string]string),
	}

	for _, c := range clusters {
		class, cogs := Classify(c)
		switch class {
		case Conflicted:
			r.Conflicts[c.Name] = cogs
			continue
		case Missing:
			r.Missing = append(r.Missing, c.Name)
		case Transferable:
			if err := Transfer(c, cogs[0]); err != nil {
				return nil, err
			}
			r.Transferred[c.Name] = cogs[0]
			r.rewritten = append(r.rewritten, c)
		}
		r.Kept = append(r.Kept, c)
	}

	return r, nil
}

// Rewritten returns the transferable clusters whose annotations changed.
func (r *Resolution) Rewritten() []*sico.Cluster {
	return r.rewritten
}

// Log reports the conflicted, transferred and missing clusters. Transfers are
// reported as transferable unless persisted is set.
func (r *Resolution) Log(logger *log.Logger, persisted bool) {
	if len(r.Conflicts) > 0 {
		logger.Printf("Multiple COGs found in %d SICOs:\n", len(r.Conflicts))
		for _, name := range sortedKeys(r.Conflicts) {
			logger.Printf("%s:\t%s\n", name, strings.Join(r.Conflicts[name], "\t"))
		}
	}
	if len(r.Transferred) > 0 {
		if persisted {
			logger.Printf("COGs transfered in %d SICOs:\n", len(r.Transferred))
		} else {
			logger.Printf("COGs transferable in %d SICOs:\n", len(r.Transferred))
		}
		for _, name := range sortedKeys(r.Transferred) {
			logger.Printf("%s:\t%s\n", name, r.Transferred[name])
		}
	}
	if len(r.Missing) > 0 {
		logger.Printf("No COGs found in %d SICOs:\n", len(r.Missing))
		for _, name := range r.Missing {
			logger.Println(name)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
