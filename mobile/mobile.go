//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包，
// 仅在使用 -tags mobile 构建时编译：
//
//	ebitenmobile bind -target android -tags mobile -o build/android/circuitlab.aar -v ./mobile
//	ebitenmobile bind -target ios -tags mobile -o build/ios/CircuitLab.xcframework -v ./mobile
//
// 构建前需把仓库根目录的 assets/ 复制到本目录。
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/circuitlab/pkg/app"
)

func init() {
	a, err := app.NewApp(app.Config{Verbose: true}, assetsFS)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	mobile.SetGame(a)
}
