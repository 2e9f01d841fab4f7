package i18n

import "testing"

// TestTranslateChinese verifies embedded catalogs are loaded.
func TestTranslateChinese(t *testing.T) {
	Init("zh_CN")
	t.Cleanup(func() { Init("en") })

	if got := T("Translation finished!"); got != "翻译完成！" {
		t.Fatalf("T() = %q", got)
	}
	if got := T("Translation progress: %d/%d", 3, 10); got != "翻译进度: 3/10" {
		t.Fatalf("T() with vars = %q", got)
	}
	if got := N("%d file was written before the failure.", "%d files were written before the failure.", 2, 2); got != "失败前已写入 2 个文件。" {
		t.Fatalf("N() = %q", got)
	}
}

// TestTranslatePassthrough verifies unknown languages return msgid.
func TestTranslatePassthrough(t *testing.T) {
	Init("xx")
	t.Cleanup(func() { Init("en") })

	if got := T("Translation finished!"); got != "Translation finished!" {
		t.Fatalf("T() = %q", got)
	}
	if got := N("%d file was written before the failure.", "%d files were written before the failure.", 1, 1); got != "1 file was written before the failure." {
		t.Fatalf("N() = %q", got)
	}
	if Language() != "xx" {
		t.Fatalf("Language() = %q", Language())
	}
}

// TestDetectLanguage checks environment precedence and suffix stripping.
func TestDetectLanguage(t *testing.T) {
	t.Setenv("LANGUAGE", "")
	t.Setenv("LC_ALL", "C")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "zh_CN.UTF-8")

	if got := detectLanguage(); got != "zh_CN" {
		t.Fatalf("detectLanguage() = %q, want zh_CN", got)
	}

	t.Setenv("LANGUAGE", "de_DE:en")
	if got := detectLanguage(); got != "de_DE" {
		t.Fatalf("detectLanguage() = %q, want de_DE", got)
	}
}

// TestTextDoesNotFormat verifies run-time messages are looked up verbatim.
func TestTextDoesNotFormat(t *testing.T) {
	Init("zh_CN")
	t.Cleanup(func() { Init("en") })

	if got := Text("select at least one column to translate"); got != "请至少选择一列进行翻译" {
		t.Fatalf("Text() = %q", got)
	}
	if got := Text("100% done"); got != "100% done" {
		t.Fatalf("Text() = %q, want msgid unchanged", got)
	}
}

// TestTranslateWithoutCatalog verifies the fallback path formats vars.
func TestTranslateWithoutCatalog(t *testing.T) {
	mu.Lock()
	saved := locale
	locale = nil
	mu.Unlock()
	t.Cleanup(func() {
		mu.Lock()
		locale = saved
		mu.Unlock()
	})

	if got := T("Translation progress: %d/%d", 1, 4); got != "Translation progress: 1/4" {
		t.Fatalf("T() = %q", got)
	}
	if got := N("%d file was written before the failure.", "%d files were written before the failure.", 3, 3); got != "3 files were written before the failure." {
		t.Fatalf("N() = %q", got)
	}
	if got := Text("Translation finished!"); got != "Translation finished!" {
		t.Fatalf("Text() = %q", got)
	}
}
