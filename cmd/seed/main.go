package main

import (
	"context"
	"log"
	"os"
	"time"

	"portfolio-backend/internal/admin"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/config"
	"portfolio-backend/internal/db"
	"portfolio-backend/internal/experience"
	"portfolio-backend/internal/projects"
	"portfolio-backend/internal/settings"
	"portfolio-backend/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	now := time.Now().In(cfg.Timezone)

	if err := seedSettings(ctx, cols, now); err != nil {
		log.Fatalf("seed settings: %v", err)
	}
	if err := seedProjects(ctx, cols, now); err != nil {
		log.Fatalf("seed projects: %v", err)
	}
	if err := seedExperiences(ctx, cols, now, cfg.Timezone); err != nil {
		log.Fatalf("seed experiences: %v", err)
	}

	username := envOrDefault("ADMIN_USER", "admin")
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("seed admin: ADMIN_PASSWORD missing, skipping")
	} else if err := seedAdminUser(ctx, cols, username, os.Getenv("ADMIN_EMAIL"), password, now); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	log.Println("seed completed")
}

func seedSettings(ctx context.Context, cols *db.Collections, now time.Time) error {
	defaults := settings.Settings{
		ID:        settings.SingletonID,
		Name:      "Your Name",
		Tagline:   "Full Stack Developer building modern web applications and experiences.",
		Bio:       "I'm a passionate developer who loves building web applications. This portfolio showcases my work in full-stack development.",
		TechStack: []string{"Go", "TypeScript", "React", "MongoDB"},
		Email:     "hello@example.com",
		Location:  "San Francisco, CA",
		UpdatedAt: now,
	}

	opts := options.Update().SetUpsert(true)
	_, err := cols.Settings.UpdateOne(ctx,
		bson.M{"_id": settings.SingletonID},
		bson.M{"$setOnInsert": defaults},
		opts,
	)
	return err
}

func seedProjects(ctx context.Context, cols *db.Collections, now time.Time) error {
	samples := []projects.Project{
		{
			Title:       "E-Commerce Platform",
			Description: "A full-featured e-commerce platform with real-time inventory, payments, and an admin dashboard.",
			CoverImage:  "https://images.unsplash.com/photo-1556742049-0cfed4f6a45d?w=800&q=80",
			Tags:        []string{"Go", "TypeScript", "Stripe", "Tailwind CSS"},
			DemoURL:     "https://example.com/demo",
			RepoURL:     "https://github.com/username/ecommerce",
			Featured:    true,
			Order:       1,
		},
		{
			Title:       "Task Management App",
			Description: "A Kanban-style task management application with drag-and-drop, real-time collaboration, and team workspaces.",
			CoverImage:  "https://images.unsplash.com/photo-1611224923853-80b023f02d71?w=800&q=80",
			Tags:        []string{"React", "Node.js", "Socket.io", "MongoDB"},
			DemoURL:     "https://example.com/tasks",
			RepoURL:     "https://github.com/username/taskapp",
			Featured:    true,
			Order:       2,
		},
		{
			Title:       "AI Chat Assistant",
			Description: "An intelligent chat assistant with conversation history, custom personas, and markdown rendering.",
			CoverImage:  "https://images.unsplash.com/photo-1677442136019-21780ecad995?w=800&q=80",
			Tags:        []string{"Python", "FastAPI", "OpenAI", "React", "WebSocket"},
			DemoURL:     "https://example.com/chat",
			RepoURL:     "https://github.com/username/ai-chat",
			Featured:    false,
			Order:       3,
		},
	}

	opts := options.Update().SetUpsert(true)
	for _, sample := range samples {
		slug := utils.Slugify(sample.Title)
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":          primitive.NewObjectID().Hex(),
				"slug":         slug,
				"title":        sample.Title,
				"description":  sample.Description,
				"cover_image":  sample.CoverImage,
				"tags":         sample.Tags,
				"demo_url":     sample.DemoURL,
				"repo_url":     sample.RepoURL,
				"published":    true,
				"featured":     sample.Featured,
				"order":        sample.Order,
				"published_at": now,
				"created_at":   now,
				"updated_at":   now,
			},
		}
		if _, err := cols.Projects.UpdateOne(ctx, bson.M{"slug": slug}, update, opts); err != nil {
			return err
		}
	}
	return nil
}

func seedExperiences(ctx context.Context, cols *db.Collections, now time.Time, loc *time.Location) error {
	date := func(value string) time.Time {
		parsed, err := time.ParseInLocation("2006-01-02", value, loc)
		if err != nil {
			log.Fatalf("seed experiences: bad date %q: %v", value, err)
		}
		return parsed
	}
	end2021 := date("2021-12-31")
	end2020 := date("2020-05-31")

	samples := []experience.Experience{
		{
			Type:         experience.TypeWork,
			Title:        "Senior Full Stack Developer",
			Organization: "Tech Company Inc.",
			Location:     "San Francisco, CA (Remote)",
			Description:  "Led development of multiple client projects. Mentored junior developers and established coding standards.",
			Skills:       []string{"Go", "React", "TypeScript", "PostgreSQL", "AWS"},
			StartDate:    date("2022-01-01"),
			Current:      true,
			Order:        1,
		},
		{
			Type:         experience.TypeWork,
			Title:        "Full Stack Developer",
			Organization: "Startup Labs",
			Location:     "New York, NY",
			Description:  "Built and maintained SaaS applications serving 10,000+ users. Implemented CI/CD pipelines and automated testing.",
			Skills:       []string{"React", "Node.js", "MongoDB", "Docker", "GitHub Actions"},
			StartDate:    date("2020-03-01"),
			EndDate:      &end2021,
			Order:        2,
		},
		{
			Type:         experience.TypeEducation,
			Title:        "Bachelor of Science in Computer Science",
			Organization: "University of Technology",
			Location:     "Boston, MA",
			Description:  "Graduated with honors. Focus on software engineering and machine learning.",
			Skills:       []string{"Algorithms", "Data Structures", "Machine Learning"},
			StartDate:    date("2016-09-01"),
			EndDate:      &end2020,
			Order:        3,
		},
	}

	opts := options.Update().SetUpsert(true)
	for _, sample := range samples {
		sample.ID = primitive.NewObjectID().Hex()
		sample.CreatedAt = now
		sample.UpdatedAt = now
		filter := bson.M{"title": sample.Title, "organization": sample.Organization}
		if _, err := cols.Experiences.UpdateOne(ctx, filter, bson.M{"$setOnInsert": sample}, opts); err != nil {
			return err
		}
	}
	return nil
}

func seedAdminUser(ctx context.Context, cols *db.Collections, username, email, password string, now time.Time) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	set := bson.M{
		"password_hash": hash,
		"role":          admin.RoleAdmin,
		"updated_at":    now,
	}
	setOnInsert := bson.M{
		"_id":        primitive.NewObjectID().Hex(),
		"username":   username,
		"created_at": now,
	}
	if email != "" {
		set["email"] = email
	}

	opts := options.Update().SetUpsert(true)
	_, err = cols.Users.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": set, "$setOnInsert": setOnInsert},
		opts,
	)
	return err
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
