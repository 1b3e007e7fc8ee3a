package service

// ImageResolver turns a showcase image URL into the URL the page should load.
type ImageResolver interface {
	Resolve(imageURL string) string
}
