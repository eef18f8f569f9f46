package language

// Defaults returns the built-in languages with the folding markers editors
// ship for them.
func Defaults() []Language {
	slashRegion := Language{
		RegionStart: `^\s*//\s*#?region\b`,
		RegionEnd:   `^\s*//\s*#?endregion\b`,
	}

	with := func(base Language, id string, exts ...string) Language {
		base.ID = id
		base.Extensions = exts
		return base
	}

	return []Language{
		with(slashRegion, "go", ".go"),
		with(slashRegion, "javascript", ".js", ".mjs", ".cjs", ".jsx"),
		with(slashRegion, "typescript", ".ts", ".mts", ".cts", ".tsx"),
		with(slashRegion, "rust", ".rs"),
		with(slashRegion, "swift", ".swift"),
		with(slashRegion, "kotlin", ".kt", ".kts"),
		with(slashRegion, "dart", ".dart"),
		{
			ID:          "csharp",
			Extensions:  []string{".cs"},
			RegionStart: `^\s*#region\b`,
			RegionEnd:   `^\s*#endregion\b`,
		},
		{
			ID:          "c",
			Extensions:  []string{".c", ".h"},
			RegionStart: `^\s*#pragma\s+region\b`,
			RegionEnd:   `^\s*#pragma\s+endregion\b`,
		},
		{
			ID:          "cpp",
			Extensions:  []string{".cc", ".cpp", ".cxx", ".hpp", ".hh", ".hxx"},
			RegionStart: `^\s*#pragma\s+region\b`,
			RegionEnd:   `^\s*#pragma\s+endregion\b`,
		},
		{
			ID:          "java",
			Extensions:  []string{".java"},
			RegionStart: `^\s*//\s*(?:(?:#?region\b)|(?:<editor-fold\b))`,
			RegionEnd:   `^\s*//\s*(?:(?:#?endregion\b)|(?:</editor-fold>))`,
		},
		{
			ID:          "python",
			Extensions:  []string{".py", ".pyi"},
			RegionStart: `^\s*#\s*region\b`,
			RegionEnd:   `^\s*#\s*endregion\b`,
		},
		{
			ID:          "ruby",
			Extensions:  []string{".rb"},
			RegionStart: `^\s*#\s*region\b`,
			RegionEnd:   `^\s*#\s*endregion\b`,
		},
		{
			ID:          "shellscript",
			Extensions:  []string{".sh", ".bash", ".zsh"},
			RegionStart: `^\s*#\s*#?region\b`,
			RegionEnd:   `^\s*#\s*#?endregion\b`,
		},
		{
			ID:          "yaml",
			Extensions:  []string{".yaml", ".yml"},
			RegionStart: `^\s*#\s*region\b`,
			RegionEnd:   `^\s*#\s*endregion\b`,
		},
		{
			ID:          "powershell",
			Extensions:  []string{".ps1", ".psm1", ".psd1"},
			RegionStart: `^\s*#[rR]egion\b`,
			RegionEnd:   `^\s*#[eE]nd[rR]egion\b`,
		},
		{
			ID:          "php",
			Extensions:  []string{".php"},
			RegionStart: `^\s*(#|//)region\b`,
			RegionEnd:   `^\s*(#|//)endregion\b`,
		},
		{
			ID:          "lua",
			Extensions:  []string{".lua"},
			RegionStart: `^\s*--\s*#?region\b`,
			RegionEnd:   `^\s*--\s*#?endregion\b`,
		},
		{
			ID:          "sql",
			Extensions:  []string{".sql"},
			RegionStart: `^\s*--\s*#region\b`,
			RegionEnd:   `^\s*--\s*#endregion\b`,
		},
		{
			ID:          "css",
			Extensions:  []string{".css", ".scss", ".less"},
			RegionStart: `^\s*/\*\s*#region\b`,
			RegionEnd:   `^\s*/\*\s*#endregion\b`,
		},
		{
			ID:          "html",
			Extensions:  []string{".html", ".htm", ".xhtml"},
			RegionStart: `^\s*<!--\s*#region\b`,
			RegionEnd:   `^\s*<!--\s*#endregion\b`,
		},
		{
			ID:          "markdown",
			Extensions:  []string{".md", ".markdown"},
			RegionStart: `^\s*<!--\s*#?region\b`,
			RegionEnd:   `^\s*<!--\s*#?endregion\b`,
		},
		{
			ID:          "bat",
			Extensions:  []string{".bat", ".cmd"},
			RegionStart: `^\s*(::|REM|@REM)\s*#region`,
			RegionEnd:   `^\s*(::|REM|@REM)\s*#endregion`,
		},
		{
			ID:         "makefile",
			Extensions: []string{"makefile", "gnumakefile", ".mk"},
		},
		{
			ID:         "plaintext",
			Extensions: []string{".txt"},
		},
	}
}
