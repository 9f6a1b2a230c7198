package productcontroller

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

const maxImageSize = 5 << 20 // 5 MiB

// UploadDir resolves the image directory, defaulting to ./uploads.
func UploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "uploads"
}

// POST /products/upload-image (admin)
// Stores the file under UPLOAD_DIR with a random name and returns the public
// path to put on a product or category.
func UploadImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Image file is required"})
			return
		}
		if file.Size > maxImageSize {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Image must be under 5MB"})
			return
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedImageExt[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Only jpg, jpeg, png and webp images are allowed"})
			return
		}

		dir := UploadDir()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to store image"})
			return
		}

		name := fmt.Sprintf("%s%s", uuid.NewString(), ext)
		if err := c.SaveUploadedFile(file, filepath.Join(dir, name)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to store image"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"path": "/uploads/" + name}})
	}
}
