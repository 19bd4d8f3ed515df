//go:build mobile

// embed.go - 移动端资产嵌入声明
// //go:embed 只能嵌入当前包目录下的文件，构建前需先把
// 仓库根目录的 assets/ 复制到本目录
package mobile

import "embed"

//go:embed all:assets
var assetsFS embed.FS
