package pipeline

import (
	"context"

	"github.com/pkg/errors"
	"github.com/studyforge/studyforge/pkg/content"
	"github.com/studyforge/studyforge/pkg/errcodes"
	"github.com/studyforge/studyforge/pkg/models"
	"github.com/uptrace/bun"
)

type resourceImporter struct{}

func (resourceImporter) Type() content.Type { return content.TypeResource }

// Import dispatches on the resource subcategory. The dispatch is exhaustive
// over the classifier's whitelist, so an unknown category here is a
// programming error, not content noise.
func (resourceImporter) Import(ctx context.Context, tx bun.Tx, unit *content.Unit, run *Run) error {
	main, ok := unit.MainFile()
	if !ok {
		return errors.Errorf("missing descriptor in %s", unit.Path)
	}
	if main.Kind == content.FileRemoved {
		return nil
	}

	switch unit.Category {
	case content.CategoryBooks:
		return importBook(ctx, tx, unit, main, run)
	case content.CategoryBuilders:
		return importBuilder(ctx, tx, unit, main, run)
	case content.CategoryConferences:
		return importConference(ctx, tx, unit, main, run)
	case content.CategoryGlossary:
		return importGlossaryWord(ctx, tx, unit, main, run)
	case content.CategoryNewsletters:
		return importNewsletter(ctx, tx, unit, main, run)
	case content.CategoryPodcasts:
		return importPodcast(ctx, tx, unit, main, run)
	case content.CategoryBets:
		return importBet(ctx, tx, unit, main, run)
	case content.CategoryMovies:
		return importMovie(ctx, tx, unit, main, run)
	case content.CategoryYoutubeChannels:
		return importYoutubeChannel(ctx, tx, unit, main, run)
	}
	return errors.Errorf("unhandled resource category: %s", unit.Category)
}

// requireBuilder verifies a builder referenced by name exists. Builders
// import before every other resource category, so a builder introduced in
// the same diff resolves here.
func requireBuilder(ctx context.Context, tx bun.Tx, name *string) error {
	if name == nil || *name == "" {
		return nil
	}
	exists, err := tx.NewSelect().
		Model((*models.Builder)(nil)).
		Where("name = ?", *name).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.ParentNotFound("builder", *name)
	}
	return nil
}

type bookDescriptor struct {
	Title            string   `yaml:"title" validate:"required"`
	Author           string   `yaml:"author"`
	PublicationYear  *int     `yaml:"publication_year"`
	CoverURL         *string  `yaml:"cover_url"`
	OriginalLanguage *string  `yaml:"original_language" validate:"omitempty,language"`
	Tags             []string `yaml:"tags"`
}

type bookLocalizedDoc struct {
	Title     string  `yaml:"title" validate:"required"`
	Summary   string  `yaml:"summary"`
	Publisher *string `yaml:"publisher"`
}

func importBook(ctx context.Context, tx bun.Tx, unit *content.Unit, main *content.ChangedFile, run *Run) error {
	var desc bookDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}

	resourceID, err := upsertResource(ctx, tx, unit, run)
	if err != nil {
		return err
	}

	book := &models.Book{
		ResourceID:       resourceID,
		Title:            desc.Title,
		Author:           desc.Author,
		PublicationYear:  desc.PublicationYear,
		CoverURL:         desc.CoverURL,
		OriginalLanguage: desc.OriginalLanguage,
	}
	_, err = tx.NewInsert().
		Model(book).
		On("CONFLICT (resource_id) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("author = EXCLUDED.author").
		Set("publication_year = EXCLUDED.publication_year").
		Set("cover_url = EXCLUDED.cover_url").
		Set("original_language = EXCLUDED.original_language").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := replaceResourceTags(ctx, tx, resourceID, desc.Tags); err != nil {
		return err
	}

	for _, language := range unit.Languages() {
		if err := importBookLocalized(ctx, tx, resourceID, language, unit.LanguageFiles[language], run); err != nil {
			run.Report.addError(unit.Path+" ["+language+"]", err)
		}
	}
	return nil
}

func importBookLocalized(ctx context.Context, tx bun.Tx, resourceID int, language string, files []content.ChangedFile, run *Run) error {
	file := files[0]
	if file.Kind == content.FileRemoved {
		_, err := tx.NewDelete().
			Model((*models.BookLocalized)(nil)).
			Where("resource_id = ? AND language = ?", resourceID, language).
			Exec(ctx)
		return errors.WithStack(err)
	}

	var doc bookLocalizedDoc
	if err := content.DecodeDescriptor(file.Data, &doc); err != nil {
		return err
	}
	if err := validate.Struct(&doc); err != nil {
		return errors.WithStack(err)
	}

	localized := &models.BookLocalized{
		ResourceID:  resourceID,
		Language:    language,
		Title:       doc.Title,
		Summary:     doc.Summary,
		Publisher:   doc.Publisher,
		SyncColumns: syncColumns(files, run),
	}
	q := tx.NewInsert().
		Model(localized).
		On("CONFLICT (resource_id, language) DO UPDATE")
	q = upsertColumns(q, "title", "summary", "publisher")
	_, err := q.Exec(ctx)
	return errors.WithStack(err)
}

type builderDescriptor struct {
	Name       string   `yaml:"name" validate:"required"`
	Category   string   `yaml:"category" validate:"required"`
	WebsiteURL *string  `yaml:"website_url"`
	TwitterURL *string  `yaml:"twitter_url"`
	GithubURL  *string  `yaml:"github_url"`
	Address    *string  `yaml:"address"`
	Tags       []string `yaml:"tags"`
}

type builderLocalizedDoc struct {
	Description string `yaml:"description"`
}

func importBuilder(ctx context.Context, tx bun.Tx, unit *content.Unit, main *content.ChangedFile, run *Run) error {
	var desc builderDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}

	resourceID, err := upsertResource(ctx, tx, unit, run)
	if err != nil {
		return err
	}

	// The address overwrite deliberately leaves place_id and coordinates
	// alone unless the address itself changed; the geocoding phase fills
	// them in later.
	builder := &models.Builder{
		ResourceID: resourceID,
		Name:       desc.Name,
		Category:   desc.Category,
		WebsiteURL: desc.WebsiteURL,
		TwitterURL: desc.TwitterURL,
		GithubURL:  desc.GithubURL,
		Address:    desc.Address,
	}
	_, err = tx.NewInsert().
		Model(builder).
		On("CONFLICT (resource_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("category = EXCLUDED.category").
		Set("website_url = EXCLUDED.website_url").
		Set("twitter_url = EXCLUDED.twitter_url").
		Set("github_url = EXCLUDED.github_url").
		Set("place_id = CASE WHEN bu.address IS EXCLUDED.address THEN bu.place_id ELSE NULL END").
		Set("latitude = CASE WHEN bu.address IS EXCLUDED.address THEN bu.latitude ELSE NULL END").
		Set("longitude = CASE WHEN bu.address IS EXCLUDED.address THEN bu.longitude ELSE NULL END").
		Set("address = EXCLUDED.address").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := replaceResourceTags(ctx, tx, resourceID, desc.Tags); err != nil {
		return err
	}

	for _, language := range unit.Languages() {
		if err := importBuilderLocalized(ctx, tx, resourceID, language, unit.LanguageFiles[language], run); err != nil {
			run.Report.addError(unit.Path+" ["+language+"]", err)
		}
	}
	return nil
}

func importBuilderLocalized(ctx context.Context, tx bun.Tx, resourceID int, language string, files []content.ChangedFile, run *Run) error {
	file := files[0]
	if file.Kind == content.FileRemoved {
		_, err := tx.NewDelete().
			Model((*models.BuilderLocalized)(nil)).
			Where("resource_id = ? AND language = ?", resourceID, language).
			Exec(ctx)
		return errors.WithStack(err)
	}

	var doc builderLocalizedDoc
	if err := content.DecodeDescriptor(file.Data, &doc); err != nil {
		return err
	}

	localized := &models.BuilderLocalized{
		ResourceID:  resourceID,
		Language:    language,
		Description: doc.Description,
		SyncColumns: syncColumns(files, run),
	}
	q := tx.NewInsert().
		Model(localized).
		On("CONFLICT (resource_id, language) DO UPDATE")
	q = upsertColumns(q, "description")
	_, err := q.Exec(ctx)
	return errors.WithStack(err)
}

type conferenceDescriptor struct {
	Name        string   `yaml:"name" validate:"required"`
	Year        int      `yaml:"year"`
	Builder     *string  `yaml:"builder"`
	Location    string   `yaml:"location"`
	WebsiteURL  *string  `yaml:"website_url"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}

func importConference(ctx context.Context, tx bun.Tx, unit *content.Unit, main *content.ChangedFile, run *Run) error {
	var desc conferenceDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}
	if err := requireBuilder(ctx, tx, desc.Builder); err != nil {
		return err
	}

	resourceID, err := upsertResource(ctx, tx, unit, run)
	if err != nil {
		return err
	}

	conference := &models.Conference{
		ResourceID:  resourceID,
		Name:        desc.Name,
		Year:        desc.Year,
		BuilderName: desc.Builder,
		Location:    desc.Location,
		WebsiteURL:  desc.WebsiteURL,
		Description: desc.Description,
	}
	_, err = tx.NewInsert().
		Model(conference).
		On("CONFLICT (resource_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("year = EXCLUDED.year").
		Set("builder_name = EXCLUDED.builder_name").
		Set("location = EXCLUDED.location").
		Set("website_url = EXCLUDED.website_url").
		Set("description = EXCLUDED.description").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return replaceResourceTags(ctx, tx, resourceID, desc.Tags)
}

type glossaryWordDescriptor struct {
	Word string   `yaml:"word" validate:"required"`
	Tags []string `yaml:"tags"`
}

type glossaryWordLocalizedDoc struct {
	Term       string `yaml:"term" validate:"required"`
	Definition string `yaml:"definition"`
}

func importGlossaryWord(ctx context.Context, tx bun.Tx, unit *content.Unit, main *content.ChangedFile, run *Run) error {
	var desc glossaryWordDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}

	resourceID, err := upsertResource(ctx, tx, unit, run)
	if err != nil {
		return err
	}

	word := &models.GlossaryWord{ResourceID: resourceID, OriginalWord: desc.Word}
	_, err = tx.NewInsert().
		Model(word).
		On("CONFLICT (resource_id) DO UPDATE").
		Set("original_word = EXCLUDED.original_word").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := replaceResourceTags(ctx, tx, resourceID, desc.Tags); err != nil {
		return err
	}

	for _, language := range unit.Languages() {
		if err := importGlossaryWordLocalized(ctx, tx, resourceID, language, unit.LanguageFiles[language], run); err != nil {
			run.Report.addError(unit.Path+" ["+language+"]", err)
		}
	}
	return nil
}

func importGlossaryWordLocalized(ctx context.Context, tx bun.Tx, resourceID int, language string, files []content.ChangedFile, run *Run) error {
	file := files[0]
	if file.Kind == content.FileRemoved {
		_, err := tx.NewDelete().
			Model((*models.GlossaryWordLocalized)(nil)).
			Where("resource_id = ? AND language = ?", resourceID, language).
			Exec(ctx)
		return errors.WithStack(err)
	}

	var doc glossaryWordLocalizedDoc
	if err := content.DecodeDescriptor(file.Data, &doc); err != nil {
		return err
	}
	if err := validate.Struct(&doc); err != nil {
		return errors.WithStack(err)
	}

	localized := &models.GlossaryWordLocalized{
		ResourceID:  resourceID,
		Language:    language,
		Term:        doc.Term,
		Definition:  doc.Definition,
		SyncColumns: syncColumns(files, run),
	}
	q := tx.NewInsert().
		Model(localized).
		On("CONFLICT (resource_id, language) DO UPDATE")
	q = upsertColumns(q, "term", "definition")
	_, err := q.Exec(ctx)
	return errors.WithStack(err)
}

type newsletterDescriptor struct {
	Title       string   `yaml:"title" validate:"required"`
	Author      string   `yaml:"author"`
	WebsiteURL  *string  `yaml:"website_url"`
	Level       string   `yaml:"level"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}

func importNewsletter(ctx context.Context, tx bun.Tx, unit *content.Unit, main *content.ChangedFile, run *Run) error {
	var desc newsletterDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}

	resourceID, err := upsertResource(ctx, tx, unit, run)
	if err != nil {
		return err
	}

	newsletter := &models.Newsletter{
		ResourceID:  resourceID,
		Title:       desc.Title,
		Author:      desc.Author,
		WebsiteURL:  desc.WebsiteURL,
		Level:       desc.Level,
		Description: desc.Description,
	}
	_, err = tx.NewInsert().
		Model(newsletter).
		On("CONFLICT (resource_id) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("author = EXCLUDED.author").
		Set("website_url = EXCLUDED.website_url").
		Set("level = EXCLUDED.level").
		Set("description = EXCLUDED.description").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return replaceResourceTags(ctx, tx, resourceID, desc.Tags)
}

type podcastDescriptor struct {
	Name        string   `yaml:"name" validate:"required"`
	Host        string   `yaml:"host"`
	Builder     *string  `yaml:"builder"`
	WebsiteURL  *string  `yaml:"website_url"`
	PodcastURL  *string  `yaml:"podcast_url"`
	TwitterURL  *string  `yaml:"twitter_url"`
	Description string   `yaml:"description"`
	Language    *string  `yaml:"language" validate:"omitempty,language"`
	Tags        []string `yaml:"tags"`
}

func importPodcast(ctx context.Context, tx bun.Tx, unit *content.Unit, main *content.ChangedFile, run *Run) error {
	var desc podcastDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}
	if err := requireBuilder(ctx, tx, desc.Builder); err != nil {
		return err
	}

	resourceID, err := upsertResource(ctx, tx, unit, run)
	if err != nil {
		return err
	}

	podcast := &models.Podcast{
		ResourceID:  resourceID,
		Name:        desc.Name,
		Host:        desc.Host,
		BuilderName: desc.Builder,
		WebsiteURL:  desc.WebsiteURL,
		PodcastURL:  desc.PodcastURL,
		TwitterURL:  desc.TwitterURL,
		Description: desc.Description,
		Language:    desc.Language,
	}
	_, err = tx.NewInsert().
		Model(podcast).
		On("CONFLICT (resource_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("host = EXCLUDED.host").
		Set("builder_name = EXCLUDED.builder_name").
		Set("website_url = EXCLUDED.website_url").
		Set("podcast_url = EXCLUDED.podcast_url").
		Set("twitter_url = EXCLUDED.twitter_url").
		Set("description = EXCLUDED.description").
		Set("language = EXCLUDED.language").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return replaceResourceTags(ctx, tx, resourceID, desc.Tags)
}

type betDescriptor struct {
	Name             string   `yaml:"name" validate:"required"`
	Builder          *string  `yaml:"builder"`
	DownloadURL      *string  `yaml:"download_url"`
	ViewURL          *string  `yaml:"view_url"`
	OriginalLanguage *string  `yaml:"original_language" validate:"omitempty,language"`
	Tags             []string `yaml:"tags"`
}

func importBet(ctx context.Context, tx bun.Tx, unit *content.Unit, main *content.ChangedFile, run *Run) error {
	var desc betDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}
	if err := requireBuilder(ctx, tx, desc.Builder); err != nil {
		return err
	}

	resourceID, err := upsertResource(ctx, tx, unit, run)
	if err != nil {
		return err
	}

	bet := &models.Bet{
		ResourceID:       resourceID,
		Name:             desc.Name,
		BuilderName:      desc.Builder,
		DownloadURL:      desc.DownloadURL,
		ViewURL:          desc.ViewURL,
		OriginalLanguage: desc.OriginalLanguage,
	}
	_, err = tx.NewInsert().
		Model(bet).
		On("CONFLICT (resource_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("builder_name = EXCLUDED.builder_name").
		Set("download_url = EXCLUDED.download_url").
		Set("view_url = EXCLUDED.view_url").
		Set("original_language = EXCLUDED.original_language").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return replaceResourceTags(ctx, tx, resourceID, desc.Tags)
}

type movieDescriptor struct {
	Title           string   `yaml:"title" validate:"required"`
	Director        string   `yaml:"director"`
	DurationMinutes *int     `yaml:"duration_minutes"`
	WebsiteURL      *string  `yaml:"website_url"`
	Description     string   `yaml:"description"`
	Language        *string  `yaml:"language" validate:"omitempty,language"`
	Tags            []string `yaml:"tags"`
}

func importMovie(ctx context.Context, tx bun.Tx, unit *content.Unit, main *content.ChangedFile, run *Run) error {
	var desc movieDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}

	resourceID, err := upsertResource(ctx, tx, unit, run)
	if err != nil {
		return err
	}

	movie := &models.Movie{
		ResourceID:      resourceID,
		Title:           desc.Title,
		Director:        desc.Director,
		DurationMinutes: desc.DurationMinutes,
		WebsiteURL:      desc.WebsiteURL,
		Description:     desc.Description,
		Language:        desc.Language,
	}
	_, err = tx.NewInsert().
		Model(movie).
		On("CONFLICT (resource_id) DO UPDATE").
		Set("title = EXCLUDED.title").
		Set("director = EXCLUDED.director").
		Set("duration_minutes = EXCLUDED.duration_minutes").
		Set("website_url = EXCLUDED.website_url").
		Set("description = EXCLUDED.description").
		Set("language = EXCLUDED.language").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return replaceResourceTags(ctx, tx, resourceID, desc.Tags)
}

type youtubeChannelDescriptor struct {
	Name        string   `yaml:"name" validate:"required"`
	ChannelURL  string   `yaml:"channel_url" validate:"required,url"`
	Language    *string  `yaml:"language" validate:"omitempty,language"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
}

func importYoutubeChannel(ctx context.Context, tx bun.Tx, unit *content.Unit, main *content.ChangedFile, run *Run) error {
	var desc youtubeChannelDescriptor
	if err := content.DecodeDescriptor(main.Data, &desc); err != nil {
		return err
	}
	if err := validate.Struct(&desc); err != nil {
		return errors.WithStack(err)
	}

	resourceID, err := upsertResource(ctx, tx, unit, run)
	if err != nil {
		return err
	}

	channel := &models.YoutubeChannel{
		ResourceID:  resourceID,
		Name:        desc.Name,
		ChannelURL:  desc.ChannelURL,
		Language:    desc.Language,
		Description: desc.Description,
	}
	_, err = tx.NewInsert().
		Model(channel).
		On("CONFLICT (resource_id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("channel_url = EXCLUDED.channel_url").
		Set("language = EXCLUDED.language").
		Set("description = EXCLUDED.description").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return replaceResourceTags(ctx, tx, resourceID, desc.Tags)
}
