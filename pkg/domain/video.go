package domain

type Video struct {
	FilePath string
	Caption  string
}
