package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"krishimitra/internal/model"
)

func init() {
	community := &cobra.Command{
		Use:   "community",
		Short: "Farmer community posts",
	}

	list := &cobra.Command{
		Use:   "posts",
		Short: "List recent posts",
		Run:   runCommunityList,
	}
	list.Flags().String("type", "", "Filter by post type (question, tip, alert)")
	list.Flags().String("location", "", "Filter by location")
	list.Flags().Int("limit", 20, "Maximum posts")

	post := &cobra.Command{
		Use:   "post [content]",
		Short: "Create a post",
		Args:  cobra.MinimumNArgs(1),
		Run:   runCommunityPost,
	}
	post.Flags().String("title", "", "Post title")
	post.Flags().String("type", "question", "Post type")
	post.Flags().String("location", "", "Location tag")

	comment := &cobra.Command{
		Use:   "comment [post-id] [content]",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(2),
		Run:   runCommunityComment,
	}

	like := &cobra.Command{
		Use:   "like [post-id]",
		Short: "Like or unlike a post",
		Args:  cobra.ExactArgs(1),
		Run:   runCommunityLike,
	}

	trending := &cobra.Command{
		Use:   "trending",
		Short: "Trending posts",
		Run:   runCommunityTrending,
	}
	trending.Flags().Int("days", 7, "Window in days")
	trending.Flags().Int("limit", 10, "Maximum posts")

	community.AddCommand(list, post, comment, like, trending)
	RootCmd.AddCommand(community)
}

func runCommunityList(cmd *cobra.Command, args []string) {
	postType, _ := cmd.Flags().GetString("type")
	location, _ := cmd.Flags().GetString("location")
	limit, _ := cmd.Flags().GetInt("limit")

	a := newApp()
	posts, err := a.data.CommunityPosts(cmd.Context(), postType, location, limit, 0)
	if err != nil {
		exitErr("community posts", err)
	}
	printPosts(posts)
}

func runCommunityPost(cmd *cobra.Command, args []string) {
	title, _ := cmd.Flags().GetString("title")
	postType, _ := cmd.Flags().GetString("type")
	location, _ := cmd.Flags().GetString("location")

	a := newApp()
	created, err := a.data.CreatePost(cmd.Context(), &model.CommunityPost{
		Title:    title,
		PostType: postType,
		Location: location,
		Content:  args[0],
	})
	if err != nil {
		exitErr("create post", err)
	}
	fmt.Printf("posted: %s\n", created.ID)
}

func runCommunityComment(cmd *cobra.Command, args []string) {
	a := newApp()
	if err := a.data.AddComment(cmd.Context(), args[0], args[1]); err != nil {
		exitErr("comment", err)
	}
	fmt.Println("comment added")
}

func runCommunityLike(cmd *cobra.Command, args []string) {
	a := newApp()
	liked, err := a.data.LikePost(cmd.Context(), args[0])
	if err != nil {
		exitErr("like", err)
	}
	if liked {
		fmt.Println("liked")
	} else {
		fmt.Println("unliked")
	}
}

func runCommunityTrending(cmd *cobra.Command, args []string) {
	days, _ := cmd.Flags().GetInt("days")
	limit, _ := cmd.Flags().GetInt("limit")

	a := newApp()
	posts, err := a.data.TrendingPosts(cmd.Context(), days, limit)
	if err != nil {
		exitErr("trending", err)
	}
	printPosts(posts)
}

func printPosts(posts []model.CommunityPost) {
	if len(posts) == 0 {
		fmt.Println("no posts")
		return
	}
	for _, p := range posts {
		fmt.Printf("[%s] %s (%d likes) #%s\n", p.PostType, p.Title, p.Likes, p.ID)
		fmt.Printf("    %s\n", p.Content)
	}
}
