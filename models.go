package pixeldrain

import "time"

// FileInfo describes an uploaded file.
type FileInfo struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Size              int64     `json:"size"`
	Views             int       `json:"views"`
	BandwidthUsed     int64     `json:"bandwidth_used"`
	BandwidthUsedPaid int64     `json:"bandwidth_used_paid"`
	Downloads         int       `json:"downloads"`
	DateUpload        time.Time `json:"date_upload"`
	DateLastView      time.Time `json:"date_last_view"`
	MimeType          string    `json:"mime_type,omitempty"`
	ThumbnailHref     string    `json:"thumbnail_href,omitempty"`
	HashSHA256        string    `json:"hash_sha256"`
	CanEdit           bool      `json:"can_edit"`
}

// ListMetadata is the summary of a list returned when enumerating
// a user's lists.
type ListMetadata struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	DateCreated time.Time `json:"date_created"`
	FileCount   int       `json:"file_count"`
	CanEdit     bool      `json:"can_edit"`
}

// ListInfo is a list together with its files.
type ListInfo struct {
	ListMetadata
	Files []FileInfo `json:"files"`
}

type SubscriptionInfo struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	Type                   string `json:"type"`
	FileSizeLimit          int64  `json:"file_size_limit"`
	FileExpiryDays         int    `json:"file_expiry_days"`
	StorageSpace           int64  `json:"storage_space"`
	PricePerTBStorage      int    `json:"price_per_tb_storage"`
	PricePerTBBandwidth    int    `json:"price_per_tb_bandwidth"`
	MonthlyTransferCap     int64  `json:"monthly_transfer_cap"`
	FileViewerBranding     bool   `json:"file_viewer_branding"`
	FilesystemAccess       bool   `json:"filesystem_access"`
	FilesystemStorageLimit int64  `json:"filesystem_storage_limit"`
}

// UserInfo describes the authenticated account.
type UserInfo struct {
	Username              string            `json:"username"`
	Email                 string            `json:"email,omitempty"`
	Subscription          SubscriptionInfo  `json:"subscription"`
	StorageSpaceUsed      int64             `json:"storage_space_used"`
	FilesystemStorageUsed int64             `json:"filesystem_storage_used"`
	BalanceMicroEUR       int               `json:"balance_micro_eur"`
	IsAdmin               bool              `json:"is_admin"`
	HotlinkingEnabled     bool              `json:"hotlinking_enabled"`
	MonthlyTransferCap    int64             `json:"monthly_transfer_cap"`
	MonthlyTransferUsed   int64             `json:"monthly_transfer_used"`
	FileViewerBranding    map[string]string `json:"file_viewer_branding,omitempty"`
	FileEmbedDomains      string            `json:"file_embed_domains"`
	SkipFileViewer        bool              `json:"skip_file_viewer"`
	AffiliateUserName     string            `json:"affiliate_user_name"`
}

// LoginResponse is returned by a successful login. AuthKey is the API
// key to pass to client.WithAPIKey.
type LoginResponse struct {
	AuthKey           string    `json:"auth_key"`
	CreationIPAddress string    `json:"creation_ip_address"`
	UserAgent         string    `json:"user_agent"`
	CreationTime      time.Time `json:"creation_time"`
	LastUsedTime      time.Time `json:"last_used_time"`
}

type itemCreated struct {
	ID string `json:"id"`
}

type userFiles struct {
	Files []FileInfo `json:"files"`
}

type userLists struct {
	Lists []ListMetadata `json:"lists"`
}

type listRequest struct {
	Title     string   `json:"title"`
	Anonymous bool     `json:"anonymous"`
	Files     []string `json:"files"`
}
