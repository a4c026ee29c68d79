package storage

import "mime/multipart"

// Uploader 商品图片等上传文件的存储后端
type Uploader interface {
	// UploadFile 保存上传的文件并返回可访问的 URL 或相对路径
	UploadFile(file *multipart.FileHeader, path string) (string, error)
}
