// Package main provides localization for the thumbforge CLI.
package main

import (
	"github.com/ideamans/go-l10n"
)

func init() {
	// Register Japanese translations for CLI messages.
	l10n.Register("ja", l10n.LexiconMap{
		// Flag categories
		"Input":     "入力",
		"Output":    "出力",
		"Headlines": "見出し",
		"Layout":    "レイアウト",
		"Debug":     "デバッグ",
		"Logging":   "ログ",

		// Commands
		"Compose video thumbnails with stroked headlines": "縁取り見出し付きの動画サムネイルを合成",
		"Compose a thumbnail once":                        "サムネイルを1回合成",
		"Recompose whenever the inputs change":            "入力の変更時に再合成",
		"List available font families":                    "利用可能なフォントファミリーを一覧表示",
		"Show version information":                        "バージョン情報を表示",
		"thumbforge version %s":                           "thumbforge バージョン %s",
		"Error: %s":                                       "エラー: %s",

		// Flags
		"YAML configuration file":                              "YAML設定ファイル",
		"Font file as family:weight:path (repeatable)":         "フォントファイル family:weight:path（複数指定可）",
		"Log level (debug, info, warn, error)":                 "ログレベル（debug, info, warn, error）",
		"Suppress all log output":                              "すべてのログ出力を抑制",
		"Background image (JPEG, PNG, GIF, WebP, BMP, TIFF)":   "背景画像（JPEG, PNG, GIF, WebP, BMP, TIFF）",
		"Output file path, .png or .jpg (required)":            "出力ファイルパス .png または .jpg（必須）",
		"Aspect ratio (16:9, 9:16, 1:1)":                       "アスペクト比（16:9, 9:16, 1:1）",
		"Write a Markdown summary to this path":                "Markdownサマリーの出力先",
		"Write Prometheus metrics to this textfile":            "Prometheusメトリクスの出力先",
		"First headline text":                                  "見出し1のテキスト",
		"Second headline text":                                 "見出し2のテキスト",
		"Vertical position (top, center, bottom)":              "縦位置（top, center, bottom）",
		"Horizontal alignment (left, center, right)":           "横揃え（left, center, right）",
		"Gap between headlines in percent of the shorter side": "見出し間の間隔（短辺に対する%）",
		"Enable debug output":                                  "デバッグ出力を有効化",
		"Directory for debug output":                           "デバッグ出力ディレクトリ",

		// Runtime
		"an output path is required (--output or output: in the config file)": "出力パスが必要です（--output または設定ファイルの output:）",
		"Config: %s":                           "設定: %s",
		"Failed to write metrics: %s":          "メトリクスの書き込みに失敗しました: %s",
		"Font unavailable, using fallback: %s": "フォントを利用できないため代替フォントを使用します: %s",
		"Failed to write summary: %s":          "サマリーの書き込みに失敗しました: %s",
		"Summary saved to %s":                  "サマリーを %s に保存しました",
		"Composition failed: %s":               "合成に失敗しました: %s",
		"Watching %d files for changes":        "%d 個のファイルの変更を監視中",
		"Change detected in %s, recomposing":   "%s の変更を検出、再合成します",

		// Summary report
		"Thumbnail Summary": "サムネイルサマリー",
		"Generated At":      "生成日時",
		"Canvas":            "キャンバス",
		"Item":              "項目",
		"Value":             "値",
		"Aspect Ratio":      "アスペクト比",
		"Size":              "サイズ",
		"Background":        "背景",
		"Placeholder color": "プレースホルダー色",
		"Image":             "画像",
		"Source Size":       "元画像サイズ",
		"Crop":              "切り抜き",
		"Lines":             "行",
		"Font":              "フォント",
		"Font Size":         "フォントサイズ",
		"Stroke":            "縁取り",
		"fallback":          "代替",
		"Position":          "位置",
		"Alignment":         "揃え",
		"Spacing":           "間隔",
		"File":              "ファイル",
		"File Size":         "ファイルサイズ",
		"Status":            "状態",
		"Unchanged":         "変更なし",
		"Duration":          "所要時間",
		"Font Errors":       "フォントエラー",
	})
}
