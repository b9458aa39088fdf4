package models

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register the PNG decoder, some providers serve PNG avatars
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/notetube/notetube/internal/config"
	"github.com/notetube/notetube/internal/drivers/rdb"

	"golang.org/x/image/draw"
)

const avatarCacheKey = "avatar:%s"
const defaultAvatar = "/static/images/default-avatar.jpg"

// Get user avatar path, either from redis, or download and store avatar path to redis
func (u *User) GetAvatar(
	ctx context.Context,
	config *config.Config,
	rdb *rdb.Service) string {

	// Set the anaylytics ID in case it's missing
	if u.AnalyticsID == "" {
		u.SetAnalyticsID()
	}

	// Get avatar URL from Redis
	redisKey := fmt.Sprintf(avatarCacheKey, u.AnalyticsID)
	avatar, err := rdb.Get(ctx, redisKey)
	if err == nil {
		// Check if default avatar
		if avatar == defaultAvatar {
			return avatar
		}

		// Quick file existence check
		destination := filepath.Join(config.DataVolume, u.AnalyticsID+".jpg")
		if _, err := os.Stat(destination); err == nil {
			return avatar
		}

		// File missing, clear stale cache
		rdb.Delete(ctx, redisKey)
	}

	// Attempt to download the avatar, set default avatar on fail
	etag, err := u.DownloadAvatar(config)
	if err != nil {
		rdb.Set(ctx, redisKey, defaultAvatar, 24*7*time.Hour)
		return defaultAvatar
	}

	// Save avatar URL to Redis and return
	avatar = "/static/images/avatars/" + u.AnalyticsID + ".jpg?v=" + etag
	rdb.Set(ctx, redisKey, avatar, 24*7*time.Hour)
	return avatar
}

// Download the remote avatar, downscale it and store it as JPEG
func (u *User) DownloadAvatar(config *config.Config) (string, error) {
	// Set the anaylytics ID in case it's missing
	if u.AnalyticsID == "" {
		u.SetAnalyticsID()
	}

	// Get remote file
	response, err := http.Get(u.AvatarURL)
	if err != nil {
		return "", fmt.Errorf("can't read the remote avatar file: %w", err)
	}
	defer response.Body.Close()

	// Ensure the HTTP request was successful (status code 2xx)
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return "", fmt.Errorf(
			"failed to download avatar from %s: received status code %d",
			u.AvatarURL,
			response.StatusCode,
		)
	}

	// Decode and downscale the image
	img, _, err := image.Decode(response.Body)
	if err != nil {
		return "", fmt.Errorf("couldn't decode the avatar image: %w", err)
	}
	img = downscale(img, config.AvatarSize)

	// Create a file for writing
	destination := filepath.Join(config.DataVolume, u.AnalyticsID+".jpg")
	file, err := os.Create(destination)
	if err != nil {
		return "", fmt.Errorf("couldn't create file '%s': %w", destination, err)
	}

	// Flag to track if the download was successful
	valid := false

	// Run this clean up function on exit
	defer func() {
		if err := file.Close(); err != nil { // Close the file
			log.Printf("Warning: failed to close file '%s': %v", destination, err)
		}
		if !valid { // Remove the file if not successfuly created
			if err := os.Remove(destination); err != nil {
				log.Printf("Failed to remove partially created file '%s': %v", destination, err)
			}
		}
	}()

	// Init a hasher
	hasher := md5.New()

	// Encode to the hasher and the file in one pass
	var multiWriter io.Writer = io.MultiWriter(hasher, file)
	if err = jpeg.Encode(multiWriter, img, nil); err != nil {
		return "", fmt.Errorf("couldn't encode or write to file '%s': %w", destination, err)
	}

	// Get the final hash sum and convert to a hex string
	hashInBytes := hasher.Sum(nil)
	hashString := hex.EncodeToString(hashInBytes)

	valid = true
	return hashString, nil
}

// Delete local avatar if exists
func (u *User) DeleteAvatar(ctx context.Context, rdb *rdb.Service, config *config.Config) {
	avatarPath := filepath.Join(config.DataVolume, u.AnalyticsID+".jpg")
	if err := os.Remove(avatarPath); err != nil && !os.IsNotExist(err) {
		log.Printf("Could not remove the local avatar %s: %v", avatarPath, err)
	}

	redisKey := fmt.Sprintf(avatarCacheKey, u.AnalyticsID)
	if err := rdb.Delete(ctx, redisKey); err != nil {
		log.Printf("Could not remove the avatar %s from Redis: %v", redisKey, err)
	}
}

// downscale resizes the image so neither side exceeds the given size
func downscale(img image.Image, size int) image.Image {

	bounds := img.Bounds()
	if size <= 0 || (bounds.Dx() <= size && bounds.Dy() <= size) {
		return img
	}

	width, height := size, size
	if bounds.Dx() > bounds.Dy() {
		height = bounds.Dy() * size / bounds.Dx()
	} else {
		width = bounds.Dx() * size / bounds.Dy()
	}

	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
	return scaled
}
