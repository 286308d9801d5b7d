package tree

import "testing"

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []Entry
		want    string
	}{
		{
			name: "root with nested dir and trailing sibling",
			entries: []Entry{
				{Name: "root", Depth: 0, Dir: true},
				{Name: "a", Depth: 1, Dir: true},
				{Name: "b.txt", Depth: 2},
				{Name: "c.txt", Depth: 1},
			},
			want: "root\n" +
				"├── a\n" +
				"│   └── b.txt\n" +
				"└── c.txt\n",
		},
		{
			name: "flat listing",
			entries: []Entry{
				{Name: ".", Depth: 0, Dir: true},
				{Name: "one", Depth: 1},
				{Name: "two", Depth: 1},
				{Name: "three", Depth: 1},
			},
			want: ".\n" +
				"├── one\n" +
				"├── two\n" +
				"└── three\n",
		},
		{
			name: "last directory uses blank padding",
			entries: []Entry{
				{Name: ".", Depth: 0, Dir: true},
				{Name: "a.txt", Depth: 1},
				{Name: "sub", Depth: 1, Dir: true},
				{Name: "deep", Depth: 2, Dir: true},
				{Name: "leaf.txt", Depth: 3},
			},
			want: ".\n" +
				"├── a.txt\n" +
				"└── sub\n" +
				"    └── deep\n" +
				"        └── leaf.txt\n",
		},
		{
			name: "sibling after closed branch",
			entries: []Entry{
				{Name: ".", Depth: 0, Dir: true},
				{Name: "x", Depth: 1, Dir: true},
				{Name: "x1.txt", Depth: 2},
				{Name: "x2.txt", Depth: 2},
				{Name: "y", Depth: 1, Dir: true},
				{Name: "y1.txt", Depth: 2},
			},
			want: ".\n" +
				"├── x\n" +
				"│   ├── x1.txt\n" +
				"│   └── x2.txt\n" +
				"└── y\n" +
				"    └── y1.txt\n",
		},
		{
			name:    "single entry",
			entries: []Entry{{Name: "only", Depth: 0}},
			want:    "only\n",
		},
		{
			name:    "empty",
			entries: nil,
			want:    "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Render(tt.entries); got != tt.want {
				t.Errorf("Render() =\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}
