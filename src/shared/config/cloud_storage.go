package config

// CloudStorage selects where per-stem files of the in-process variant live.
// A nil CloudStorage keeps them in the local working dir.
type CloudStorage interface {
	GetBucket() string
}

var _ CloudStorage = ProdCloudStorage{}

type ProdCloudStorage struct {
	SecretKey  string
	BucketName string
}

func (p ProdCloudStorage) GetBucket() string {
	return p.BucketName
}

var _ CloudStorage = LocalCloudStorage{}

// LocalCloudStorage points at a fake GCS server.
type LocalCloudStorage struct {
	HostEndpoint string
	BucketName   string
}

func (l LocalCloudStorage) GetBucket() string {
	return l.BucketName
}
