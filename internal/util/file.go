package util

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// 商品图片允许的扩展名
var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// IsAllowedImageExt 检查文件名是否为支持的图片格式
func IsAllowedImageExt(filename string) bool {
	return allowedImageExts[strings.ToLower(filepath.Ext(filename))]
}

// GenerateUniqueFilename 生成唯一的文件名，扩展名统一转为小写
func GenerateUniqueFilename(originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	name := strings.TrimSuffix(filepath.Base(originalFilename), ext)

	timestamp := strconv.FormatInt(time.Now().UnixNano(), 10)
	return name + "_" + timestamp + strings.ToLower(ext)
}
