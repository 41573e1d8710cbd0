package telegram

import (
	"testing"

	"telegram-file-relay/internal/config"
	"telegram-file-relay/internal/usecase"
)

func TestParseCallback(t *testing.T) {
	cases := []struct {
		data   string
		wantOp cbOp
		wantID string
	}{
		{usecase.CBManagePrefix + "abc12xyz", opManage, "abc12xyz"},
		{usecase.CBLinkPrefix + "abc12xyz", opLink, "abc12xyz"},
		{usecase.CBDeletePrefix + "abc12xyz", opDelete, "abc12xyz"},
		{usecase.CBBack, opBack, ""},
		{"  " + usecase.CBBack + "  ", opBack, ""},
	}
	for _, c := range cases {
		got, err := parseCallback(c.data)
		if err != nil {
			t.Errorf("parseCallback(%q) failed: %v", c.data, err)
			continue
		}
		if got.op != c.wantOp || got.fileID != c.wantID {
			t.Errorf("parseCallback(%q) = {%v %q}, want {%v %q}", c.data, got.op, got.fileID, c.wantOp, c.wantID)
		}
	}
}

func TestParseCallback_Rejects(t *testing.T) {
	for _, data := range []string{
		"",
		"manage:",
		"manage:SHOUTING",
		"manage:too-long-to-be-an-id",
		"del:short",
		"nonsense",
		"buy:abc12xyz",
	} {
		if _, err := parseCallback(data); err == nil {
			t.Errorf("parseCallback(%q) should have been rejected", data)
		}
	}
}

func TestCbOpString(t *testing.T) {
	want := map[cbOp]string{
		opManage:  "manage",
		opLink:    "link",
		opDelete:  "delete",
		opBack:    "back",
		cbOp(999): "unknown",
	}
	for op, s := range want {
		if op.String() != s {
			t.Errorf("cbOp(%d).String() = %q, want %q", op, op.String(), s)
		}
	}
}

func TestIsAdmin(t *testing.T) {
	r := &RealTelegramBotAdapter{cfg: &config.BotConfig{Token: "dummy", AdminID: 1111}}
	if !r.isAdmin(1111) {
		t.Fatal("expected 1111 to be admin")
	}
	if r.isAdmin(2222) {
		t.Fatal("expected 2222 to NOT be admin")
	}
}
