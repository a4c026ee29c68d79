package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIsAllowedImageExt 仅接受支持的图片扩展名，大小写不敏感
func TestIsAllowedImageExt(t *testing.T) {
	assert.True(t, IsAllowedImageExt("shoe.jpg"))
	assert.True(t, IsAllowedImageExt("shoe.PNG"))
	assert.True(t, IsAllowedImageExt("shoe.webp"))
	assert.False(t, IsAllowedImageExt("shoe.exe"))
	assert.False(t, IsAllowedImageExt("shoe"))
	assert.False(t, IsAllowedImageExt(""))
}

// TestGenerateUniqueFilename 生成的文件名保留原名并统一小写扩展名
func TestGenerateUniqueFilename(t *testing.T) {
	name := GenerateUniqueFilename("Air-Max.JPG")
	assert.True(t, strings.HasPrefix(name, "Air-Max_"))
	assert.True(t, strings.HasSuffix(name, ".jpg"))

	other := GenerateUniqueFilename("Air-Max.JPG")
	assert.NotEqual(t, name, other)
}
