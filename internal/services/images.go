package services

import (
	"context"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
)

const defaultImageURLTTL = time.Hour

// ImageSigner remplace les chemins d'images du bucket par des URLs signées.
// Sans client, ou pour une URL externe, l'image est renvoyée telle quelle.
type ImageSigner struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

func NewImageSigner(client *minio.Client, bucket string, ttl time.Duration) *ImageSigner {
	if ttl <= 0 {
		ttl = defaultImageURLTTL
	}
	return &ImageSigner{client: client, bucket: bucket, ttl: ttl}
}

// Sign ne retourne jamais d'erreur : en cas d'échec l'URL d'origine est conservée
func (s *ImageSigner) Sign(ctx context.Context, image string) string {
	if s == nil || s.client == nil || image == "" {
		return image
	}
	key, ok := s.objectKey(image)
	if !ok {
		return image
	}

	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.ttl, make(url.Values))
	if err != nil {
		log.Printf("⚠️ Signature MinIO impossible pour %s: %v", key, err)
		return image
	}
	return presigned.String()
}

// objectKey extrait la clé d'objet d'un chemin relatif ou d'une URL du bucket
func (s *ImageSigner) objectKey(image string) (string, bool) {
	if !strings.HasPrefix(image, "http://") && !strings.HasPrefix(image, "https://") {
		key := strings.TrimPrefix(strings.TrimPrefix(image, "/"), s.bucket+"/")
		return key, key != ""
	}

	u, err := url.Parse(image)
	if err != nil {
		return "", false
	}
	// URL déjà signée
	if u.Query().Get("X-Amz-Signature") != "" {
		return "", false
	}
	prefix := "/" + s.bucket + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(u.Path, prefix)
	return key, key != ""
}
