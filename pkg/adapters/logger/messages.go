package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("pt", l10n.LexiconMap{
		// Orchestration level messages (info)
		"Composing %s thumbnail (%dx%d)":     "Compondo miniatura %s (%dx%d)",
		"Output saved to %s":                 "Saída salva em %s",
		"Output unchanged, skipping write":   "Saída inalterada, gravação ignorada",
		"Composition completed in %d ms":     "Composição concluída em %d ms",
		"Interrupted, shutting down...":      "Interrompido, encerrando...",
		"Watching %d files for changes":      "Observando %d arquivos",
		"Change detected in %s, recomposing": "Alteração em %s, recompondo",
		"Generating background for %q":       "Gerando fundo para %q",
		"Background prompt: %s":              "Prompt do fundo: %s",

		// Background
		"Decoding background image (%d bytes)":   "Decodificando imagem de fundo (%d bytes)",
		"Background decoded: %dx%d":              "Fundo decodificado: %dx%d",
		"No background image, using placeholder": "Sem imagem de fundo, usando cor neutra",
		"Cover crop %.1f,%.1f %.1fx%.1f":         "Recorte %.1f,%.1f %.1fx%.1f",

		// Fonts
		"Font %s %d loaded from %s":                      "Fonte %s %d carregada de %s",
		"Font %s %d failed to load: %s":                  "Falha ao carregar a fonte %s %d: %s",
		"Headline %d uses fallback font %s %d":           "Headline %d usa a fonte alternativa %s %d",
		"Headline %d skipped, font face unavailable: %s": "Headline %d ignorada, fonte indisponível: %s",

		// Layout and rendering
		"Headline %d: %d lines, %.1f px tall": "Headline %d: %d linhas, %.1f px de altura",
		"Stack starts at y=%.1f (gap %.1f)":   "Pilha começa em y=%.1f (espaço %.1f)",

		// Errors
		"Failed to read background: %s":     "Falha ao ler o fundo: %s",
		"Failed to decode background: %s":   "Falha ao decodificar o fundo: %s",
		"Failed to compose thumbnail: %s":   "Falha ao compor a miniatura: %s",
		"Failed to write output: %s":        "Falha ao gravar a saída: %s",
		"Failed to generate background: %s": "Falha ao gerar o fundo: %s",
		"Watcher error: %s":                 "Erro do observador: %s",
	})

	l10n.Register("ja", l10n.LexiconMap{
		"Composing %s thumbnail (%dx%d)":                 "%s サムネイルを合成中 (%dx%d)",
		"Output saved to %s":                             "出力を %s に保存しました",
		"Output unchanged, skipping write":               "出力に変更がないため書き込みをスキップします",
		"Composition completed in %d ms":                 "合成が %d ms で完了しました",
		"Interrupted, shutting down...":                  "中断されました。シャットダウン中...",
		"Failed to decode background: %s":                "背景画像のデコードに失敗しました: %s",
		"Failed to compose thumbnail: %s":                "サムネイルの合成に失敗しました: %s",
		"Headline %d skipped, font face unavailable: %s": "見出し %d をスキップしました。フォントを利用できません: %s",
		"Failed to write output: %s":                     "出力の書き込みに失敗しました: %s",
	})
}
