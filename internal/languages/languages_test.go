package languages

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{name: "exact", in: "es", want: "es", wantOK: true},
		{name: "upper case", in: "FR", want: "fr", wantOK: true},
		{name: "region in table", in: "zh-tw", want: "zh-TW", wantOK: true},
		{name: "underscore separator", in: "zh_CN", want: "zh-CN", wantOK: true},
		{name: "region falls back to base", in: "pt-BR", want: "pt", wantOK: true},
		{name: "bare chinese", in: "zh", want: "zh-CN", wantOK: true},
		{name: "legacy hebrew", in: "iw", want: "he", wantOK: true},
		{name: "auto sentinel", in: "Auto", want: Auto, wantOK: true},
		{name: "surrounding spaces", in: "  de ", want: "de", wantOK: true},
		{name: "empty", in: "", want: "", wantOK: false},
		{name: "garbage", in: "not a language", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLabel(t *testing.T) {
	if got := Label("en"); got != "English" {
		t.Errorf("Label(en) = %q, want English", got)
	}
	if got := Label("auto"); got != AutoLabel {
		t.Errorf("Label(auto) = %q, want %q", got, AutoLabel)
	}
	if got := Label("zh-CN"); got != "Chinese (Simplified)" {
		t.Errorf("Label(zh-CN) = %q", got)
	}
	if got := Label("xx-unknown"); got != "xx-unknown" {
		t.Errorf("unknown code should be returned unchanged, got %q", got)
	}
}

func TestTargetsExcludeAuto(t *testing.T) {
	for _, l := range Targets() {
		if l.Code == Auto {
			t.Fatal("Targets must not contain the auto sentinel")
		}
	}
	if len(Targets()) != Len() {
		t.Errorf("expected %d targets, got %d", Len(), len(Targets()))
	}
}

func TestSourcesStartWithAuto(t *testing.T) {
	src := Sources()
	if len(src) != Len()+1 {
		t.Fatalf("expected %d sources, got %d", Len()+1, len(src))
	}
	if src[0].Code != Auto {
		t.Errorf("expected auto first, got %q", src[0].Code)
	}
}

func TestAllSortedByLabel(t *testing.T) {
	all := All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Label > all[i].Label {
			t.Fatalf("not sorted: %q before %q", all[i-1].Label, all[i].Label)
		}
	}
}

func TestSpeechCode(t *testing.T) {
	tests := map[string]string{
		"zh-CN": "zh",
		"en":    "en",
		"ceb":   "ceb",
		"zh-TW": "zh",
	}
	for in, want := range tests {
		if got := SpeechCode(in); got != want {
			t.Errorf("SpeechCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFromISO639_1(t *testing.T) {
	if got, ok := FromISO639_1("EN"); !ok || got != "en" {
		t.Errorf("FromISO639_1(EN) = %q, %v", got, ok)
	}
	if got, ok := FromISO639_1("ZH"); !ok || got != "zh-CN" {
		t.Errorf("FromISO639_1(ZH) = %q, %v", got, ok)
	}
	if _, ok := FromISO639_1("auto"); ok {
		t.Error("auto is not an ISO code")
	}
}
