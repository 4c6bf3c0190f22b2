package modcfg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lofty-launcher/internal/distro"
)

func boolPtr(b bool) *bool { return &b }

func optional(id string, def bool, subs ...*distro.Module) *distro.Module {
	return &distro.Module{
		ID:         id,
		Type:       distro.TypeForgeMod,
		Required:   &distro.Required{Value: boolPtr(false), Def: boolPtr(def)},
		SubModules: subs,
	}
}

func required(id string, subs ...*distro.Module) *distro.Module {
	return &distro.Module{ID: id, Type: distro.TypeForgeMod, SubModules: subs}
}

func TestConfigJSON(t *testing.T) {
	in := `{"a:leaf":true,"a:node":{"value":false,"mods":{"a:sub":true}},"a:req":{"mods":{"a:sub":false}}}`

	var mods map[string]*Config
	require.NoError(t, json.Unmarshal([]byte(in), &mods))

	assert.True(t, mods["a:leaf"].IsLeaf())
	assert.True(t, mods["a:leaf"].Value())
	assert.False(t, mods["a:node"].IsLeaf())
	assert.False(t, mods["a:node"].Value())
	assert.Nil(t, mods["a:req"].Enabled)
	assert.True(t, mods["a:req"].Value())

	out, err := json.Marshal(mods)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))

	var bad Config
	assert.Error(t, json.Unmarshal([]byte(`"yes"`), &bad))
}

func TestScan(t *testing.T) {
	t.Run("no configurable submodules yields default leaf", func(t *testing.T) {
		got := Scan(nil, optional("com.example:minimap:1.0", false))
		assert.Equal(t, Leaf(false), got)
	})

	t.Run("optional origin with optional child", func(t *testing.T) {
		origin := optional("com.example:map:1.0", true, optional("com.example:map-addon:1.0", false))
		got := Scan(origin.SubModules, origin)
		assert.Equal(t, Node(boolPtr(true), map[string]*Config{"com.example:map-addon": Leaf(false)}), got)
	})

	t.Run("required origin node has no value", func(t *testing.T) {
		origin := required("com.example:core:1.0", optional("com.example:extra:1.0", true))
		got := Scan(origin.SubModules, origin)
		assert.Nil(t, got.Enabled)
		assert.Equal(t, Leaf(true), got.Mods["com.example:extra"])
	})

	t.Run("required children without options are skipped", func(t *testing.T) {
		origin := optional("com.example:map:1.0", true, required("com.example:lib:1.0"))
		got := Scan(origin.SubModules, origin)
		assert.True(t, got.IsLeaf())
	})
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name     string
		old      *Config
		fresh    *Config
		required bool
		want     *Config
	}{
		{
			name:  "leaf over leaf keeps old",
			old:   Leaf(false),
			fresh: Leaf(true),
			want:  Leaf(false),
		},
		{
			name:  "leaf over optional node carries value",
			old:   Leaf(false),
			fresh: Node(boolPtr(true), map[string]*Config{"x:a": Leaf(true)}),
			want:  Node(boolPtr(false), map[string]*Config{"x:a": Leaf(true)}),
		},
		{
			name:     "leaf over required node keeps node",
			old:      Leaf(false),
			fresh:    Node(nil, map[string]*Config{"x:a": Leaf(true)}),
			required: true,
			want:     Node(nil, map[string]*Config{"x:a": Leaf(true)}),
		},
		{
			name:  "node over leaf collapses to old value",
			old:   Node(boolPtr(false), map[string]*Config{"x:a": Leaf(true)}),
			fresh: Leaf(true),
			want:  Leaf(false),
		},
		{
			name:  "valueless node over leaf is enabled",
			old:   Node(nil, map[string]*Config{}),
			fresh: Leaf(false),
			want:  Leaf(true),
		},
		{
			name:  "node over node merges children present in both",
			old:   Node(boolPtr(false), map[string]*Config{"x:a": Leaf(false), "x:gone": Leaf(false)}),
			fresh: Node(boolPtr(true), map[string]*Config{"x:a": Leaf(true), "x:new": Leaf(true)}),
			want:  Node(boolPtr(false), map[string]*Config{"x:a": Leaf(false), "x:new": Leaf(true)}),
		},
		{
			name:     "required node over node keeps no value",
			old:      Node(boolPtr(false), map[string]*Config{"x:a": Leaf(false)}),
			fresh:    Node(nil, map[string]*Config{"x:a": Leaf(true)}),
			required: true,
			want:     Node(nil, map[string]*Config{"x:a": Leaf(false)}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Merge(tt.old, tt.fresh, tt.required))
		})
	}
}

func TestSync(t *testing.T) {
	servers := []*distro.Server{
		{
			ID: "survival",
			Modules: []*distro.Module{
				{ID: "net.minecraftforge:forge:1.20.1-47.2.0", Type: distro.TypeForgeHosted},
				optional("com.example:minimap:2.3", true),
				required("com.example:core:1.0", optional("com.example:extra:1.0", false)),
				required("com.example:plain:1.0"),
			},
		},
		{ID: "creative"},
	}
	existing := []ServerConfig{
		{ID: "survival", Mods: map[string]*Config{
			"com.example:minimap": Leaf(false),
			"com.example:core":    Node(nil, map[string]*Config{"com.example:extra": Leaf(true)}),
		}},
		{ID: "removed", Mods: map[string]*Config{"x:y": Leaf(true)}},
	}

	got := Sync(servers, existing)
	require.Len(t, got, 2)

	assert.Equal(t, "survival", got[0].ID)
	assert.Equal(t, map[string]*Config{
		"com.example:minimap": Leaf(false),
		"com.example:core":    Node(nil, map[string]*Config{"com.example:extra": Leaf(true)}),
	}, got[0].Mods)

	assert.Equal(t, ServerConfig{ID: "creative", Mods: map[string]*Config{}}, got[1])

	assert.Nil(t, Find(got, "removed"))
	assert.Len(t, Find(got, "survival"), 2)
}

func TestSyncFreshServerUsesDefaults(t *testing.T) {
	servers := []*distro.Server{{
		ID:      "survival",
		Modules: []*distro.Module{optional("com.example:minimap:2.3", false)},
	}}

	got := Sync(servers, nil)
	require.Len(t, got, 1)
	assert.Equal(t, Leaf(false), got[0].Mods["com.example:minimap"])
}

func TestResolve(t *testing.T) {
	addon := optional("com.example:map-addon:1.0", false)
	mapMod := optional("com.example:map:1.0", true, addon)
	disabled := optional("com.example:minimap:2.3", true)
	lite := &distro.Module{ID: "com.example:litemod:1.0", Type: distro.TypeLiteMod}
	fabric := &distro.Module{ID: "net.fabricmc:fabric-api:0.90", Type: distro.TypeFabricMod}
	lib := &distro.Module{ID: "org.ow2.asm:asm:9.8", Type: distro.TypeLibrary}

	cfg := map[string]*Config{
		"com.example:map":     Node(boolPtr(true), map[string]*Config{"com.example:map-addon": Leaf(true)}),
		"com.example:minimap": Leaf(false),
	}

	got := Resolve(cfg, []*distro.Module{lib, mapMod, disabled, lite, fabric})
	assert.Equal(t, []*distro.Module{addon, mapMod, fabric}, got.Mods)
	assert.Equal(t, []*distro.Module{lite}, got.LiteMods)

	// Without a stored configuration, defaults apply.
	got = Resolve(nil, []*distro.Module{mapMod, disabled})
	assert.Equal(t, []*distro.Module{mapMod, disabled}, got.Mods)
}

func TestIsEnabled(t *testing.T) {
	m := optional("com.example:minimap:2.3", false)
	assert.False(t, IsEnabled(nil, m))
	assert.True(t, IsEnabled(Leaf(true), m))
	assert.True(t, IsEnabled(Node(nil, nil), m))
}
