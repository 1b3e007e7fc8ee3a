package media_storage

import (
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"go.uber.org/zap"

	"github.com/khoahotran/coding-portfolio/internal/application/service"
	"github.com/khoahotran/coding-portfolio/internal/config"
	"github.com/khoahotran/coding-portfolio/pkg/logger"
)

// CardTransformation crops showcase images to the 3:2 card ratio.
const CardTransformation = "c_fill,g_auto,w_600,h_400,f_auto,q_auto"

type cloudinaryAdapter struct {
	cld    *cloudinary.Cloudinary
	logger logger.Logger
}

// NewCloudinaryAdapter serves remote showcase images through Cloudinary's fetch
// delivery. Without a cloud name configured images are linked directly.
func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.ImageResolver, error) {
	if cfg.Cloudinary.CloudName == "" {
		log.Info("Cloudinary not configured, showcase images are linked directly")
		return PassthroughResolver{}, nil
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("connect Cloudinary successfully.", zap.String("cloud_name", cfg.Cloudinary.CloudName))
	return &cloudinaryAdapter{cld: cld, logger: log}, nil
}

func (a *cloudinaryAdapter) Resolve(imageURL string) string {
	if !strings.HasPrefix(imageURL, "http://") && !strings.HasPrefix(imageURL, "https://") {
		return imageURL
	}

	img, err := a.cld.Image(imageURL)
	if err != nil {
		a.logger.Warn("init cloudinary asset failed", zap.String("image_url", imageURL), zap.Error(err))
		return imageURL
	}
	img.DeliveryType = api.Fetch
	img.Transformation = CardTransformation

	out, err := img.String()
	if err != nil {
		a.logger.Warn("build cloudinary fetch URL failed", zap.String("image_url", imageURL), zap.Error(err))
		return imageURL
	}
	return out
}

type PassthroughResolver struct{}

func (PassthroughResolver) Resolve(imageURL string) string { return imageURL }
