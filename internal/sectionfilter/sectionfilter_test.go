package sectionfilter

import "testing"

func TestStrip_RemovesMatchedSection(t *testing.T) {
	content := "# Intro\nkeep this\n## Private\nsecret\nmore secret\n## Public\nvisible\n"
	got := Strip(content, []string{"Private"})
	want := "# Intro\nkeep this\n## Public\nvisible"
	if got != want {
		t.Errorf("Strip = %q, want %q", got, want)
	}
}

func TestStrip_NestedHeadingsDropped(t *testing.T) {
	content := "## Private\ntext\n### Deeper\nnested text\n## After\nok"
	got := Strip(content, []string{"Private"})
	if got != "## After\nok" {
		t.Errorf("Strip = %q", got)
	}
}

func TestStrip_ClosingHeadingReevaluated(t *testing.T) {
	// The heading that closes one exclusion can itself open another.
	content := "## Private\na\n## Also Private\nb\n## Keep\nc"
	got := Strip(content, []string{"Private", "Also Private"})
	if got != "## Keep\nc" {
		t.Errorf("Strip = %q", got)
	}
}

func TestStrip_ShallowerHeadingCloses(t *testing.T) {
	content := "### Private\nhidden\n# Top\nvisible"
	got := Strip(content, []string{"Private"})
	if got != "# Top\nvisible" {
		t.Errorf("Strip = %q", got)
	}
}

func TestStrip_NoExclusionsTrimsOnly(t *testing.T) {
	got := Strip("\n\n# A\nbody\n\n", nil)
	if got != "# A\nbody" {
		t.Errorf("Strip = %q", got)
	}
}

func TestStrip_TitleMustMatchExactly(t *testing.T) {
	content := "## Private Notes\nkept\n## Private\ndropped"
	got := Strip(content, []string{"Private"})
	if got != "## Private Notes\nkept" {
		t.Errorf("Strip = %q", got)
	}
}

func TestStrip_Idempotent(t *testing.T) {
	content := "# A\ntext\n## Private\nsecret\n### Sub\nnested\n## B\nmore\n"
	titles := []string{"Private"}
	once := Strip(content, titles)
	twice := Strip(once, titles)
	if once != twice {
		t.Errorf("not idempotent:\nonce  = %q\ntwice = %q", once, twice)
	}
}
