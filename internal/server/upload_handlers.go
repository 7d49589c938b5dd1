package server

import "github.com/gofiber/fiber/v2"

const megabyte = 1 << 20

// UploadLimits mirrors the size limits of the upload service, in bytes.
type UploadLimits struct {
	Image        int64    `json:"image"`
	Audio        int64    `json:"audio"`
	Video        int64    `json:"video"`
	Blob         int64    `json:"blob"`
	AllowedHosts []string `json:"allowed_hosts"`
}

// GetUploadLimits godoc
// @Summary Upload size limits and accepted hosts
// @Tags uploads
// @Produce json
// @Success 200 {object} UploadLimits
// @Router /uploads/limits [get]
func (s *Server) GetUploadLimits(c *fiber.Ctx) error {
	hosts := splitList(s.config.UploadHosts)
	if hosts == nil {
		hosts = []string{}
	}
	return c.JSON(UploadLimits{
		Image:        16 * megabyte,
		Audio:        16 * megabyte,
		Video:        32 * megabyte,
		Blob:         32 * megabyte,
		AllowedHosts: hosts,
	})
}
