package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupOrder(t *testing.T) {
	g := NewGroup()
	g.Add(CheckResult{ID: "zeta", Status: StatusGood, Score: 1})
	g.Add(CheckResult{ID: "alpha", Status: StatusWarning, Score: 0.5})
	g.Add(CheckResult{ID: "zeta", Status: StatusCritical})

	assert.Equal(t, []string{"zeta", "alpha"}, g.IDs())
	assert.Equal(t, 2, g.Len())
	c, ok := g.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, StatusCritical, c.Status)
	assert.False(t, g.Has("missing"))

	var nilGroup *Group
	assert.Equal(t, 0, nilGroup.Len())
	assert.Nil(t, nilGroup.Checks())
}

func TestGroupsJSONKeepsOrder(t *testing.T) {
	technical := NewGroup()
	technical.Add(CheckResult{ID: "ssl", Name: "HTTPS/SSL", Status: StatusGood, Score: 1, Importance: ImportanceHigh})
	meta := NewGroup()
	meta.Add(CheckResult{ID: "title_length", Status: StatusWarning, Score: 0.25})
	meta.Add(CheckResult{ID: "meta_description_length", Status: StatusGood, Score: 1})

	gs := NewGroups()
	gs.Set(CategoryTechnical, technical)
	gs.Set(CategoryMeta, meta)

	data, err := json.Marshal(gs)
	require.NoError(t, err)
	assert.Regexp(t, `^\{"technical":\{"ssl":\{.*\}\},"meta":\{"title_length":\{.*\},"meta_description_length":\{.*\}\}\}$`, string(data))

	var decoded Groups
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []Category{CategoryTechnical, CategoryMeta}, decoded.Categories())
	g, ok := decoded.Get(CategoryMeta)
	require.True(t, ok)
	assert.Equal(t, []string{"title_length", "meta_description_length"}, g.IDs())
	c, _ := g.Get("title_length")
	assert.Equal(t, 0.25, c.Score)

	t.Run("key fills a missing id", func(t *testing.T) {
		var g Group
		require.NoError(t, json.Unmarshal([]byte(`{"ssl":{"status":"good","score":1}}`), &g))
		c, ok := g.Get("ssl")
		require.True(t, ok)
		assert.Equal(t, "ssl", c.ID)
	})

	t.Run("rejects non objects", func(t *testing.T) {
		var gs Groups
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &gs))
	})
}

func TestAnalysisResultJSON(t *testing.T) {
	g := NewGroup()
	g.Add(CheckResult{ID: "ssl", Status: StatusGood, Score: 1})
	gs := NewGroups()
	gs.Set(CategoryTechnical, g)

	data, err := json.Marshal(AnalysisResult{ContentID: 9, Groups: gs, Score: 100})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"post_id", "analysis_groups", "score", "issues", "category_scores", "timestamp"} {
		assert.Contains(t, raw, key)
	}
}

func TestParseSecondaryKeywords(t *testing.T) {
	assert.Equal(t, []string{"a", "b c"}, ParseSecondaryKeywords(" a ,, b c ,"))
	assert.Equal(t, []string{}, ParseSecondaryKeywords(""))
}

func TestRanks(t *testing.T) {
	assert.Less(t, StatusCritical.Rank(), StatusWarning.Rank())
	assert.Less(t, StatusWarning.Rank(), StatusGood.Rank())
	assert.Equal(t, StatusWarning.Rank(), Status("unknown").Rank())

	assert.Less(t, ImportanceHigh.Rank(), ImportanceMedium.Rank())
	assert.Less(t, ImportanceMedium.Rank(), ImportanceLow.Rank())
	assert.Equal(t, ImportanceMedium.Rank(), Importance("").Rank())
}

func TestContentItemMetaValue(t *testing.T) {
	var item *ContentItem
	assert.Equal(t, "", item.MetaValue("k"))

	item = &ContentItem{Meta: map[string]string{"k": "  v "}}
	assert.Equal(t, "v", item.MetaValue("k"))
	assert.Equal(t, "", item.MetaValue("missing"))
}

func TestSettings(t *testing.T) {
	s := DefaultAnalysisSettings()
	assert.NoError(t, s.Validate())
	s.Strictness = "extreme"
	assert.Error(t, s.Validate())

	g := DefaultGeneralSettings()
	assert.True(t, g.Analyzable(TypePost))
	assert.True(t, g.Analyzable(TypePage))
	assert.False(t, g.Analyzable(TypeProduct))
}
