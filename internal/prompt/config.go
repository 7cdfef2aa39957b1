package prompt

// Config contains prompt pool settings.
type Config struct {
	Dataset         string `env:"DATASET"                  envDefault:"sharegpt"`
	ShareGPTURL     string `env:"SHAREGPT_URL"             envDefault:"https://huggingface.co/datasets/anon8231489123/ShareGPT_Vicuna_unfiltered/resolve/main/ShareGPT_V3_unfiltered_cleaned_split.json"`
	ShareGPTPath    string `env:"SHAREGPT_PATH"`
	DownloadTimeout int    `env:"DATASET_DOWNLOAD_TIMEOUT" envDefault:"120"`
}
