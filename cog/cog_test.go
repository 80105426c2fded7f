package cog

import (
	"bytes"
	"log"
	"testing"

	"github.com/TGenNorth/orthofilter/sico"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cluster builds a cluster with one member per COG, genomes named A, B, C...
func cluster(name string, cogs ...string) *sico.Cluster {
	c := &sico.Cluster{Name: name}
	for i, cog := range cogs {
		genome := string(rune('A' + i))
		c.Records = append(c.Records, sico.Record{
			Header: sico.Header{GenomeID: genome, ContigID: "contig", ProteinID: "p" + genome, COG: cog, Category: "core"},
			Seq:    []byte("ATGAAA"),
		})
	}
	return c
}

func TestClassify(t *testing.T) {
	var tests = []struct {
		cogs   []string
		class  Class
		expect []string
	}{
		{[]string{"None", "None"}, Missing, nil},
		{[]string{"COG1", "COG1"}, Consistent, []string{"COG1"}},
		{[]string{"COG1", "None", "COG1"}, Transferable, []string{"COG1"}},
		{[]string{"COG2", "COG1", "COG2"}, Conflicted, []string{"COG1", "COG2"}},
		{[]string{"COG2", "None", "COG1"}, Conflicted, []string{"COG1", "COG2"}},
	}

	for _, tt := range tests {
		class, cogs := Classify(cluster("sico", tt.cogs...))
		assert.Equal(t, tt.class, class, "%v", tt.cogs)
		assert.Equal(t, tt.expect, cogs, "%v", tt.cogs)
	}
}

func TestResolveTransferable(t *testing.T) {
	c := cluster("sico_1", "COG1", "None", "COG1")

	r, err := Resolve([]*sico.Cluster{c})
	require.NoError(t, err)

	require.Equal(t, []*sico.Cluster{c}, r.Kept)
	assert.Equal(t, map[string]string{"sico_1": "COG1"}, r.Transferred)
	assert.Equal(t, []*sico.Cluster{c}, r.Rewritten())
	for _, record := range c.Records {
		assert.Equal(t, "COG1", record.Header.COG)
	}
	assert.Equal(t, "pA", c.Records[0].Header.ProteinID, "non-sentinel members are unchanged")
}

func TestResolveDropsConflicts(t *testing.T) {
	conflicted := cluster("sico_1", "COG1", "COG2", "None")
	missing := cluster("sico_2", "None", "None")
	consistent := cluster("sico_3", "COG3", "COG3")

	r, err := Resolve([]*sico.Cluster{conflicted, missing, consistent})
	require.NoError(t, err)

	assert.Equal(t, []*sico.Cluster{missing, consistent}, r.Kept)
	assert.Equal(t, map[string][]string{"sico_1": {"COG1", "COG2"}}, r.Conflicts)
	assert.Equal(t, []string{"sico_2"}, r.Missing)
	assert.Empty(t, r.Transferred)
	assert.Empty(t, r.Rewritten())

	// Untouched
	assert.Equal(t, "None", conflicted.Records[2].Header.COG)
	assert.Equal(t, "None", missing.Records[0].Header.COG)
}

func TestTransferMismatch(t *testing.T) {
	err := Transfer(cluster("sico_1", "COG1", "COG2"), "COG1")
	assert.Equal(t, ErrTransferMismatch, errors.Cause(err))
}

func TestLog(t *testing.T) {
	r, err := Resolve([]*sico.Cluster{
		cluster("b", "COG1", "COG2"),
		cluster("a", "COG3", "None"),
		cluster("c", "None"),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	r.Log(log.New(&buf, "", 0), true)

	assert.Equal(t, "Multiple COGs found in 1 SICOs:\n"+
		"b:\tCOG1\tCOG2\n"+
		"COGs transfered in 1 SICOs:\n"+
		"a:\tCOG3\n"+
		"No COGs found in 1 SICOs:\n"+
		"c\n", buf.String())
}

func TestLogNotPersisted(t *testing.T) {
	r, err := Resolve([]*sico.Cluster{cluster("a", "COG3", "None")})
	require.NoError(t, err)

	var buf bytes.Buffer
	r.Log(log.New(&buf, "", 0), false)

	assert.Equal(t, "COGs transferable in 1 SICOs:\n"+
		"a:\tCOG3\n", buf.String())
}
